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
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusorgs/oms-api/internal/constants"
	"github.com/campusorgs/oms-api/internal/database"
	"github.com/campusorgs/oms-api/internal/dto"
	"github.com/campusorgs/oms-api/internal/models"
	"github.com/campusorgs/oms-api/internal/repository"
	"github.com/campusorgs/oms-api/internal/services"
)

// OrganizationHandlerTestSuite defines the test suite for OrganizationHandler
type OrganizationHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *OrganizationHandler
}

// SetupTest runs before each test
func (suite *OrganizationHandlerTestSuite) SetupTest() {
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

	orgRepo := repository.NewOrganizationRepository(suite.db)
	orgService := services.NewOrganizationService(orgRepo)

	// No blob store in tests
	suite.handler = NewOrganizationHandler(orgService, nil, zap.NewNop())

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *OrganizationHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *OrganizationHandlerTestSuite) createTestOrganization(name string) *models.Organization {
	org := &models.Organization{
		Name: name,
	}
	suite.db.Create(org)
	return org
}

func (suite *OrganizationHandlerTestSuite) createOrgActor(email string, org *models.Organization) *models.User {
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

// Helper function to create a request context
func (suite *OrganizationHandlerTestSuite) createContext(method, url string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
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

	return c, w
}

// Helper function to create a context carrying the acting organization user
// (simulates RequireRole middleware)
func (suite *OrganizationHandlerTestSuite) createActorContext(method, url string, body []byte, actor *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := suite.createContext(method, url, body)
	c.Set(constants.ContextKeyUserID, actor.ID)
	c.Set(constants.ContextKeyCurrentUser, *actor)
	return c, w
}

// TestListOrganizations tests the public directory
func (suite *OrganizationHandlerTestSuite) TestListOrganizations() {
	suite.createTestOrganization("Chess Club")
	suite.createTestOrganization("Debate Society")

	c, w := suite.createContext("GET", "/api/organizations", nil)

	suite.handler.ListOrganizations(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.OrganizationListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response.Organizations, 2)
	assert.Equal(suite.T(), int64(2), response.TotalCount)
}

// TestGetOrganization_NotFound tests an unknown organization ID
func (suite *OrganizationHandlerTestSuite) TestGetOrganization_NotFound() {
	c, w := suite.createContext("GET", "/api/organizations/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	suite.handler.GetOrganization(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpdateOrganization_Success tests profile edits; the name stays fixed
func (suite *OrganizationHandlerTestSuite) TestUpdateOrganization_Success() {
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)

	body, _ := json.Marshal(map[string]interface{}{
		"description": "Weekly games and tournaments",
		"tags":        []string{"games", "strategy"},
	})

	c, w := suite.createActorContext("PUT", "/api/organizations/1", body, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateOrganization(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.OrganizationDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Weekly games and tournaments", response.Description)
	assert.Equal(suite.T(), []string{"games", "strategy"}, response.Tags)
	assert.Equal(suite.T(), "Chess Club", response.Name)
}

// TestUpdateOrganization_WrongOrganization tests cross-organization edits are
// refused and leave the record untouched
func (suite *OrganizationHandlerTestSuite) TestUpdateOrganization_WrongOrganization() {
	suite.createTestOrganization("Chess Club")
	otherOrg := suite.createTestOrganization("Debate Society")
	outsider := suite.createOrgActor("outsider@example.com", otherOrg)

	body, _ := json.Marshal(map[string]string{"description": "Hijacked"})

	c, w := suite.createActorContext("PUT", "/api/organizations/1", body, outsider)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateOrganization(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var stored models.Organization
	suite.db.First(&stored, 1)
	assert.Empty(suite.T(), stored.Description)
}

// TestUploadLogo_WrongOrganization tests that another organization's logo
// upload is refused before anything would reach the blob store
func (suite *OrganizationHandlerTestSuite) TestUploadLogo_WrongOrganization() {
	suite.createTestOrganization("Chess Club")
	otherOrg := suite.createTestOrganization("Debate Society")
	outsider := suite.createOrgActor("outsider@example.com", otherOrg)

	c, w := suite.createActorContext("POST", "/api/organizations/1/logo", nil, outsider)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UploadLogo(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var stored models.Organization
	suite.db.First(&stored, 1)
	assert.Empty(suite.T(), stored.LogoURL)
}

// TestOrganizationHandlerTestSuite runs the test suite
func TestOrganizationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationHandlerTestSuite))
}
