package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusorgs/oms-api/internal/constants"
	"github.com/campusorgs/oms-api/internal/database"
	"github.com/campusorgs/oms-api/internal/dto"
	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"github.com/campusorgs/oms-api/internal/services"
)

// MembershipHandlerTestSuite defines the test suite for MembershipHandler
type MembershipHandlerTestSuite struct {
	suite.Suite
	db                *gorm.DB
	handler           *MembershipHandler
	membershipService *services.MembershipService
}

// SetupTest runs before each test
func (suite *MembershipHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Event{},
		&models.EventImage{},
		&models.Reaction{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	membershipRepo := repository.NewMembershipRepository(suite.db)
	orgRepo := repository.NewOrganizationRepository(suite.db)
	suite.membershipService = services.NewMembershipService(membershipRepo, orgRepo)
	suite.handler = NewMembershipHandler(suite.membershipService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *MembershipHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *MembershipHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FullName:     "Test User",
		Role:         models.RoleMember,
	}
	suite.db.Create(user)
	return user
}

func (suite *MembershipHandlerTestSuite) createTestOrganization(name string) *models.Organization {
	org := &models.Organization{
		Name: name,
	}
	suite.db.Create(org)
	return org
}

func (suite *MembershipHandlerTestSuite) createOrgActor(email string, org *models.Organization) *models.User {
	actor := &models.User{
		Email:          email,
		PasswordHash:   "hashedpassword",
		FullName:       "Org Officer",
		Role:           models.RoleOrganization,
		OrganizationID: &org.ID,
	}
	suite.db.Create(actor)
	return actor
}

// Helper function to create authenticated context
func (suite *MembershipHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// Helper function to create a context carrying the acting organization user
// (simulates RequireRole middleware)
func (suite *MembershipHandlerTestSuite) createActorContext(method, url string, body []byte, actor *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := suite.createAuthContext(method, url, body, actor.ID)
	c.Set(constants.ContextKeyCurrentUser, *actor)
	return c, w
}

// TestRequestJoin_Success tests a first join request
func (suite *MembershipHandlerTestSuite) TestRequestJoin_Success() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")

	c, w := suite.createAuthContext("POST", "/api/organizations/1/join", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.RequestJoin(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.MembershipDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MembershipPending, response.Status)
	assert.Equal(suite.T(), user.ID, response.UserID)
	assert.Equal(suite.T(), org.ID, response.OrganizationID)
	assert.False(suite.T(), response.JoinedAt.IsZero())
}

// TestRequestJoin_Duplicate tests that a second request for the same
// organization conflicts and leaves a single pending record
func (suite *MembershipHandlerTestSuite) TestRequestJoin_Duplicate() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")

	_, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("POST", "/api/organizations/1/join", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.RequestJoin(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var count int64
	suite.db.Model(&models.Membership{}).
		Where("user_id = ? AND organization_id = ? AND status = ?", user.ID, org.ID, models.MembershipPending).
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestRequestJoin_UnknownOrganization tests joining a nonexistent organization
func (suite *MembershipHandlerTestSuite) TestRequestJoin_UnknownOrganization() {
	user := suite.createTestUser("student@example.com")

	c, w := suite.createAuthContext("POST", "/api/organizations/999/join", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	suite.handler.RequestJoin(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestApprove_Success tests approving a pending request
func (suite *MembershipHandlerTestSuite) TestApprove_Success() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)

	membership, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	c, w := suite.createActorContext("POST", "/api/memberships/1/approve", nil, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.Approve(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.MembershipDTO
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MembershipApproved, response.Status)
	assert.NotNil(suite.T(), response.ApprovalDate)

	var stored models.Membership
	suite.db.First(&stored, membership.ID)
	assert.Equal(suite.T(), models.MembershipApproved, stored.Status)
}

// TestApprove_WrongOrganization tests that an account of another organization
// cannot decide the request, and the record stays pending
func (suite *MembershipHandlerTestSuite) TestApprove_WrongOrganization() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")
	otherOrg := suite.createTestOrganization("Debate Society")
	outsider := suite.createOrgActor("outsider@example.com", otherOrg)

	membership, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	c, w := suite.createActorContext("POST", "/api/memberships/1/approve", nil, outsider)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.Approve(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var stored models.Membership
	suite.db.First(&stored, membership.ID)
	assert.Equal(suite.T(), models.MembershipPending, stored.Status)
}

// TestReject_Success tests the full reject flow with reason metadata
func (suite *MembershipHandlerTestSuite) TestReject_Success() {
	user := suite.createTestUser("u1@example.com")
	org := suite.createTestOrganization("org-42")
	actor := suite.createOrgActor("o1@example.com", org)

	membership, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)
	suite.Require().Equal(models.MembershipPending, membership.Status)

	body, _ := json.Marshal(map[string]string{
		"reason":  "incomplete_documents",
		"details": "missing ID",
	})

	c, w := suite.createActorContext("POST", "/api/memberships/1/reject", body, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.Reject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.Membership
	suite.db.First(&stored, membership.ID)
	assert.Equal(suite.T(), models.MembershipRejected, stored.Status)
	assert.Equal(suite.T(), models.ReasonIncompleteDocuments, stored.RejectionReason)
	assert.Equal(suite.T(), "missing ID", stored.RejectionDetails)

	// Rejected users never show up in the member roster
	approved, err := suite.membershipService.ListApproved(org.ID)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), approved)
}

// TestReject_OtherReasonNeedsDetails tests that reason "other" without
// details is refused
func (suite *MembershipHandlerTestSuite) TestReject_OtherReasonNeedsDetails() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)

	_, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]string{"reason": "other"})

	c, w := suite.createActorContext("POST", "/api/memberships/1/reject", body, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.Reject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestReject_UnknownReason tests that an unlisted reason is refused
func (suite *MembershipHandlerTestSuite) TestReject_UnknownReason() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)

	_, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]string{"reason": "vibes"})

	c, w := suite.createActorContext("POST", "/api/memberships/1/reject", body, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.Reject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDismiss_AllowsNewRequest tests that dismissing a rejection unblocks a
// fresh join request
func (suite *MembershipHandlerTestSuite) TestDismiss_AllowsNewRequest() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)

	membership, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	_, err = suite.membershipService.Reject(actor, membership.ID, services.RejectInput{
		Reason: models.ReasonFailedInterview,
	})
	suite.Require().NoError(err)

	// Still blocked while the rejected record exists
	_, err = suite.membershipService.RequestJoin(user.ID, org.ID)
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyRequested)

	c, w := suite.createAuthContext("DELETE", "/api/memberships/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.Dismiss(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	fresh, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MembershipPending, fresh.Status)
}

// TestDismiss_NotOwner tests that only the rejected user can dismiss
func (suite *MembershipHandlerTestSuite) TestDismiss_NotOwner() {
	user := suite.createTestUser("student@example.com")
	other := suite.createTestUser("other@example.com")
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)

	membership, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	_, err = suite.membershipService.Reject(actor, membership.ID, services.RejectInput{
		Reason: models.ReasonLowGrades,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("DELETE", "/api/memberships/1", nil, other.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.Dismiss(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListPending_Success tests the pending queue excludes decided requests
func (suite *MembershipHandlerTestSuite) TestListPending_Success() {
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)
	first := suite.createTestUser("first@example.com")
	second := suite.createTestUser("second@example.com")

	_, err := suite.membershipService.RequestJoin(first.ID, org.ID)
	suite.Require().NoError(err)
	decided, err := suite.membershipService.RequestJoin(second.ID, org.ID)
	suite.Require().NoError(err)

	_, err = suite.membershipService.Approve(actor, decided.ID)
	suite.Require().NoError(err)

	c, w := suite.createActorContext("GET", "/api/organizations/1/members/pending", nil, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.ListPending(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]dto.MembershipDTO
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	memberships := response["memberships"]
	suite.Require().Len(memberships, 1)
	assert.Equal(suite.T(), first.ID, memberships[0].UserID)
	assert.NotNil(suite.T(), memberships[0].User)
}

// TestListPending_WrongOrganization tests that an organization cannot read
// another organization's pending queue by changing the path ID
func (suite *MembershipHandlerTestSuite) TestListPending_WrongOrganization() {
	org := suite.createTestOrganization("Chess Club")
	otherOrg := suite.createTestOrganization("Debate Society")
	outsider := suite.createOrgActor("outsider@example.com", otherOrg)
	user := suite.createTestUser("student@example.com")

	_, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	c, w := suite.createActorContext("GET", "/api/organizations/1/members/pending", nil, outsider)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.ListPending(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListMine_RejectedFilter tests the ?status=rejected view used for the
// rejection-reasons page
func (suite *MembershipHandlerTestSuite) TestListMine_RejectedFilter() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")
	otherOrg := suite.createTestOrganization("Debate Society")
	actor := suite.createOrgActor("officer@example.com", org)
	otherActor := suite.createOrgActor("other@example.com", otherOrg)

	approved, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)
	_, err = suite.membershipService.Approve(actor, approved.ID)
	suite.Require().NoError(err)

	rejected, err := suite.membershipService.RequestJoin(user.ID, otherOrg.ID)
	suite.Require().NoError(err)
	_, err = suite.membershipService.Reject(otherActor, rejected.ID, services.RejectInput{
		Reason: models.ReasonAttendanceIssues,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/me/memberships?status=rejected", nil, user.ID)

	suite.handler.ListMine(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]dto.MembershipDTO
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	memberships := response["memberships"]
	suite.Require().Len(memberships, 1)
	assert.Equal(suite.T(), otherOrg.ID, memberships[0].OrganizationID)
	assert.Equal(suite.T(), models.MembershipRejected, memberships[0].Status)
	assert.Equal(suite.T(), models.ReasonAttendanceIssues, memberships[0].RejectionReason)

	// The unfiltered view still returns both records
	c, w = suite.createAuthContext("GET", "/api/me/memberships", nil, user.ID)
	suite.handler.ListMine(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response["memberships"], 2)
}

// TestListMine_UnknownStatusFilter tests that an unlisted status is refused
func (suite *MembershipHandlerTestSuite) TestListMine_UnknownStatusFilter() {
	user := suite.createTestUser("student@example.com")

	c, w := suite.createAuthContext("GET", "/api/me/memberships?status=blocked", nil, user.ID)

	suite.handler.ListMine(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestTerminalStatesAreFinal tests that decided memberships refuse further
// transitions in either direction
func (suite *MembershipHandlerTestSuite) TestTerminalStatesAreFinal() {
	user := suite.createTestUser("student@example.com")
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)

	membership, err := suite.membershipService.RequestJoin(user.ID, org.ID)
	suite.Require().NoError(err)

	_, err = suite.membershipService.Approve(actor, membership.ID)
	suite.Require().NoError(err)

	_, err = suite.membershipService.Approve(actor, membership.ID)
	assert.ErrorIs(suite.T(), err, services.ErrMembershipDecided)

	_, err = suite.membershipService.Reject(actor, membership.ID, services.RejectInput{
		Reason: models.ReasonLowGrades,
	})
	assert.ErrorIs(suite.T(), err, services.ErrMembershipDecided)

	var stored models.Membership
	suite.db.First(&stored, membership.ID)
	assert.Equal(suite.T(), models.MembershipApproved, stored.Status)
}

// TestMembershipHandlerTestSuite runs the test suite
func TestMembershipHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipHandlerTestSuite))
}
