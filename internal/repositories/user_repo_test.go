package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"pedalgo/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	user := &models.User{
		ID:           suite.userID,
		Name:         "Ana Souza",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$hash",
		Phone:        stringPtr("11987654321"),
		CPF:          stringPtr("12345678901"),
		Points:       models.DefaultUserPoints,
	}

	suite.mock.ExpectExec(`
		INSERT INTO users \(id, name, email, password_hash, phone, cpf, points, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.CPF, user.Points).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, user)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *UserRepoTestSuite) TestCreate_DuplicateEmail() {
	user := &models.User{
		ID:           suite.userID,
		Name:         "Ana Souza",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$hash",
		Points:       models.DefaultUserPoints,
	}

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.CPF, user.Points).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := suite.repo.Create(suite.context, user)
	assert.ErrorIs(suite.T(), err, ErrDuplicateEmail)
}

func (suite *UserRepoTestSuite) TestGetByID_Success() {
	now := time.Now()
	suite.mock.ExpectQuery(`
		SELECT id, name, email, password_hash, phone, cpf, points, created_at, updated_at
		FROM users
		WHERE id = \$1
	`).WithArgs(suite.userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "phone", "cpf", "points", "created_at", "updated_at"}).
			AddRow(suite.userID, "Ana Souza", "ana@example.com", "$2a$10$hash", stringPtr("11987654321"), (*string)(nil), 110, now, now))

	user, err := suite.repo.GetByID(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.userID, user.ID)
	assert.Equal(suite.T(), 110, user.Points)
	assert.Equal(suite.T(), "11987654321", *user.Phone)
	assert.Nil(suite.T(), user.CPF)
}

func (suite *UserRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM users`).
		WithArgs(suite.userID).
		WillReturnError(pgx.ErrNoRows)

	user, err := suite.repo.GetByID(suite.context, suite.userID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), user)
}

func (suite *UserRepoTestSuite) TestGetByEmail_Success() {
	now := time.Now()
	suite.mock.ExpectQuery(`WHERE email = \$1`).
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "phone", "cpf", "points", "created_at", "updated_at"}).
			AddRow(suite.userID, "Ana Souza", "ana@example.com", "$2a$10$hash", (*string)(nil), (*string)(nil), 100, now, now))

	user, err := suite.repo.GetByEmail(suite.context, "ana@example.com")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ana@example.com", user.Email)
}

func (suite *UserRepoTestSuite) TestGetByEmail_NotFound() {
	suite.mock.ExpectQuery(`WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByEmail(suite.context, "ghost@example.com")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *UserRepoTestSuite) TestUpdatePhone_Success() {
	phone := stringPtr("11912345678")
	suite.mock.ExpectExec(`UPDATE users SET phone = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(phone, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdatePhone(suite.context, suite.userID, phone)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestUpdatePhone_UnknownUser() {
	phone := stringPtr("11912345678")
	suite.mock.ExpectExec(`UPDATE users SET phone = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(phone, suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdatePhone(suite.context, suite.userID, phone)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *UserRepoTestSuite) TestUpdatePhone_DatabaseError() {
	phone := stringPtr("11912345678")
	suite.mock.ExpectExec(`UPDATE users SET phone = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(phone, suite.userID).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.UpdatePhone(suite.context, suite.userID, phone)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *UserRepoTestSuite) TestList_Success() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "phone", "cpf", "points", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Ana", "ana@example.com", "h1", (*string)(nil), (*string)(nil), 100, now, now).
		AddRow(uuid.New(), "Bruno", "bruno@example.com", "h2", (*string)(nil), (*string)(nil), 130, now, now)

	suite.mock.ExpectQuery(`ORDER BY created_at`).WillReturnRows(rows)

	users, err := suite.repo.List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 2)
	assert.Equal(suite.T(), "Ana", users[0].Name)
	assert.Equal(suite.T(), 130, users[1].Points)
}

func stringPtr(s string) *string {
	return &s
}
