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

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db                *gorm.DB
	handler           *TaskHandler
	taskService       *services.TaskService
	membershipService *services.MembershipService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
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
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.membershipService = services.NewMembershipService(membershipRepo, orgRepo)
	suite.taskService = services.NewTaskService(taskRepo, suite.membershipService)
	suite.handler = NewTaskHandler(suite.taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FullName:     "Test User",
		Role:         models.RoleMember,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestOrganization(name string) *models.Organization {
	org := &models.Organization{
		Name: name,
	}
	suite.db.Create(org)
	return org
}

func (suite *TaskHandlerTestSuite) createOrgActor(email string, org *models.Organization) *models.User {
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

func (suite *TaskHandlerTestSuite) approveMember(actor, user *models.User, orgID uint64) {
	membership, err := suite.membershipService.RequestJoin(user.ID, orgID)
	suite.Require().NoError(err)
	_, err = suite.membershipService.Approve(actor, membership.ID)
	suite.Require().NoError(err)
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
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
func (suite *TaskHandlerTestSuite) createActorContext(method, url string, body []byte, actor *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := suite.createAuthContext(method, url, body, actor.ID)
	c.Set(constants.ContextKeyCurrentUser, *actor)
	return c, w
}

// TestCreateTask_Success tests assigning a task to an approved member
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)
	member := suite.createTestUser("student@example.com")
	suite.approveMember(actor, member, org.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Prepare tournament brackets",
		"description": "Seed by rating",
		"priority":    "high",
		"assignee_id": member.ID,
	})

	c, w := suite.createActorContext("POST", "/api/organizations/1/tasks", body, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Prepare tournament brackets", response.Name)
	assert.Equal(suite.T(), models.PriorityHigh, response.Priority)
	assert.Equal(suite.T(), member.ID, response.AssigneeID)
	assert.Equal(suite.T(), org.ID, response.OrganizationID)
}

// TestCreateTask_AssigneeNotApproved tests that a pending requester cannot
// receive tasks
func (suite *TaskHandlerTestSuite) TestCreateTask_AssigneeNotApproved() {
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)
	outsider := suite.createTestUser("outsider@example.com")

	_, err := suite.membershipService.RequestJoin(outsider.ID, org.ID)
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Prepare tournament brackets",
		"priority":    "low",
		"assignee_id": outsider.ID,
	})

	c, w := suite.createActorContext("POST", "/api/organizations/1/tasks", body, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateTask_InvalidPriority tests the priority enum
func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidPriority() {
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)
	member := suite.createTestUser("student@example.com")
	suite.approveMember(actor, member, org.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Prepare tournament brackets",
		"priority":    "urgent",
		"assignee_id": member.ID,
	})

	c, w := suite.createActorContext("POST", "/api/organizations/1/tasks", body, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListMyTasks tests that members see only their own assignments
func (suite *TaskHandlerTestSuite) TestListMyTasks() {
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)
	member := suite.createTestUser("student@example.com")
	other := suite.createTestUser("other@example.com")
	suite.approveMember(actor, member, org.ID)
	suite.approveMember(actor, other, org.ID)

	_, err := suite.taskService.CreateTask(actor, services.CreateTaskInput{
		Name:       "Mine",
		Priority:   models.PriorityMedium,
		AssigneeID: member.ID,
	})
	suite.Require().NoError(err)
	_, err = suite.taskService.CreateTask(actor, services.CreateTaskInput{
		Name:       "Someone else's",
		Priority:   models.PriorityLow,
		AssigneeID: other.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("GET", "/api/me/tasks", nil, member.ID)

	suite.handler.ListMyTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]dto.TaskDTO
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	tasks := response["tasks"]
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Mine", tasks[0].Name)
}

// TestListOrganizationTasks tests the organization-side listing
func (suite *TaskHandlerTestSuite) TestListOrganizationTasks() {
	org := suite.createTestOrganization("Chess Club")
	actor := suite.createOrgActor("officer@example.com", org)
	member := suite.createTestUser("student@example.com")
	suite.approveMember(actor, member, org.ID)

	_, err := suite.taskService.CreateTask(actor, services.CreateTaskInput{
		Name:       "First",
		Priority:   models.PriorityHigh,
		AssigneeID: member.ID,
	})
	suite.Require().NoError(err)
	_, err = suite.taskService.CreateTask(actor, services.CreateTaskInput{
		Name:       "Second",
		Priority:   models.PriorityLow,
		AssigneeID: member.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createActorContext("GET", "/api/organizations/1/tasks", nil, actor)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.ListOrganizationTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]dto.TaskDTO
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response["tasks"], 2)
}

// TestListOrganizationTasks_WrongOrganization tests that an organization
// cannot read another organization's tasks by changing the path ID
func (suite *TaskHandlerTestSuite) TestListOrganizationTasks_WrongOrganization() {
	org := suite.createTestOrganization("Chess Club")
	otherOrg := suite.createTestOrganization("Debate Society")
	actor := suite.createOrgActor("officer@example.com", org)
	outsider := suite.createOrgActor("outsider@example.com", otherOrg)
	member := suite.createTestUser("student@example.com")
	suite.approveMember(actor, member, org.ID)

	_, err := suite.taskService.CreateTask(actor, services.CreateTaskInput{
		Name:       "Internal",
		Priority:   models.PriorityHigh,
		AssigneeID: member.ID,
	})
	suite.Require().NoError(err)

	c, w := suite.createActorContext("GET", "/api/organizations/1/tasks", nil, outsider)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.ListOrganizationTasks(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
