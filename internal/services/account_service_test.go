package services

import (
	"context"
	"testing"

	"pedalgo/internal/models"
	"pedalgo/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AccountServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	cacheSvc *MockCacheService
	svc      AccountService
	ctx      context.Context
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.userRepo = new(MockUserRepository)
	s.cacheSvc = new(MockCacheService)
	s.svc = NewAccountService(s.userRepo, s.cacheSvc)
	s.ctx = context.Background()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestRegister_HashesPasswordAndDefaultsPoints() {
	var created *models.User
	s.userRepo.On("Create", s.ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.User)
		}).Return(nil)

	user, err := s.svc.Register(s.ctx, "Ana", "ana@example.com", "hunter22", nil, nil)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), models.DefaultUserPoints, user.Points)
	assert.NotEqual(s.T(), "hunter22", created.PasswordHash)
	assert.NoError(s.T(), bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")))
}

func (s *AccountServiceTestSuite) TestRegister_DuplicateEmail() {
	s.userRepo.On("Create", s.ctx, mock.AnythingOfType("*models.User")).
		Return(repositories.ErrDuplicateEmail)

	_, err := s.svc.Register(s.ctx, "Ana", "ana@example.com", "hunter22", nil, nil)
	assert.ErrorIs(s.T(), err, ErrEmailTaken)
}

func (s *AccountServiceTestSuite) TestAuthenticate_Success() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	stored := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)}
	s.userRepo.On("GetByEmail", s.ctx, "ana@example.com").Return(stored, nil)

	user, err := s.svc.Authenticate(s.ctx, "ana@example.com", "hunter22")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), stored.ID, user.ID)
}

func (s *AccountServiceTestSuite) TestAuthenticate_WrongPassword() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	stored := &models.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)}
	s.userRepo.On("GetByEmail", s.ctx, "ana@example.com").Return(stored, nil)

	_, err := s.svc.Authenticate(s.ctx, "ana@example.com", "wrong")
	assert.ErrorIs(s.T(), err, ErrInvalidCredentials)
}

func (s *AccountServiceTestSuite) TestAuthenticate_UnknownEmail() {
	s.userRepo.On("GetByEmail", s.ctx, "ghost@example.com").Return(nil, repositories.ErrNotFound)

	_, err := s.svc.Authenticate(s.ctx, "ghost@example.com", "whatever")
	assert.ErrorIs(s.T(), err, ErrInvalidCredentials)
}

func (s *AccountServiceTestSuite) TestGetProfile_ServedFromCache() {
	userID := uuid.New()
	cached := &models.User{ID: userID, Name: "Ana", Points: 110}
	s.cacheSvc.On("GetUser", s.ctx, userID).Return(cached, nil)

	user, err := s.svc.GetProfile(s.ctx, userID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), cached, user)
	s.userRepo.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestGetProfile_CacheMissReadsStoreAndWarms() {
	userID := uuid.New()
	stored := &models.User{ID: userID, Name: "Ana", Points: 100}
	s.cacheSvc.On("GetUser", s.ctx, userID).Return(nil, nil)
	s.userRepo.On("GetByID", s.ctx, userID).Return(stored, nil)
	s.cacheSvc.On("SetUser", s.ctx, stored, profileCacheTTL).Return(nil)

	user, err := s.svc.GetProfile(s.ctx, userID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), stored, user)
	s.cacheSvc.AssertCalled(s.T(), "SetUser", s.ctx, stored, profileCacheTTL)
}

func (s *AccountServiceTestSuite) TestUpdatePhone_OnlyPhoneChangesAndCacheInvalidated() {
	userID := uuid.New()
	phone := "11999998888"
	updated := &models.User{ID: userID, Name: "Ana", Phone: &phone, Email: "ana@example.com", Points: 100}
	s.userRepo.On("UpdatePhone", s.ctx, userID, &phone).Return(nil)
	s.cacheSvc.On("DeleteUser", s.ctx, userID).Return(nil)
	s.userRepo.On("GetByID", s.ctx, userID).Return(updated, nil)

	user, err := s.svc.UpdatePhone(s.ctx, userID, &phone)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), &phone, user.Phone)
	assert.Equal(s.T(), "ana@example.com", user.Email)
	assert.Equal(s.T(), 100, user.Points)
	s.cacheSvc.AssertCalled(s.T(), "DeleteUser", s.ctx, userID)
}

func (s *AccountServiceTestSuite) TestUpdatePhone_NilPhoneIsNoOp() {
	userID := uuid.New()
	stored := &models.User{ID: userID, Name: "Ana"}
	s.userRepo.On("GetByID", s.ctx, userID).Return(stored, nil)

	_, err := s.svc.UpdatePhone(s.ctx, userID, nil)
	assert.NoError(s.T(), err)
	s.userRepo.AssertNotCalled(s.T(), "UpdatePhone", mock.Anything, mock.Anything, mock.Anything)
}
