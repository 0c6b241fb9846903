package postgres_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/postgres"
	"gorm.io/gorm"
)

type DBTestSuite struct {
	suite.Suite

	db *gorm.DB
}

func TestRunSuite(t *testing.T) {
	if os.Getenv("CHECKPOINT_TEST_DATABASE_URL") == "" {
		t.Skip("CHECKPOINT_TEST_DATABASE_URL not set")
	}

	suite.Run(t, new(DBTestSuite))
}

func (suite *DBTestSuite) SetupSuite() {
	cfg := &postgres.CxnConfig{IsTestDB: true, URL: os.Getenv("CHECKPOINT_TEST_DATABASE_URL")}

	db, err := postgres.Connect(cfg, postgres.Migrations, checkpoint.Testing)
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *DBTestSuite) TearDownTest() {
	suite.Require().NoError(postgres.WipeDB(suite.db))
}

func (suite *DBTestSuite) TestMigrateUpIsIdempotent() {
	// Act
	err := postgres.MigrateUp(suite.db, "public", postgres.Migrations)

	// Assert
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Table("migrations").Count(&count).Error)
	suite.Require().Equal(int64(len(postgres.Migrations)), count)
}

func (suite *DBTestSuite) TestMigrateUpRunsNew() {
	// Arrange
	extra := append(postgres.Migrations, postgres.Migration{
		Key: "test_extra",
		Executor: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE IF NOT EXISTS extra (id SERIAL PRIMARY KEY)").Error
		},
	})

	// Act
	err := postgres.MigrateUp(suite.db, "public", extra)

	// Assert
	suite.Require().NoError(err)
	suite.Require().True(suite.db.Migrator().HasTable("extra"))
}
