package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "TalentSift-backend/internal/model"
	"TalentSift-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & records
var (
	TestAdminUser      m.User
	TestUserRecruiter1 m.User
	TestUserRecruiter2 m.User

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded job descriptions
	TestJD1 m.JobDescription
	TestJD2 m.JobDescription
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample recruiter users and job descriptions if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that may get created during NewDBInstance
	if userCount > 1 {
		return loadTestData(db)
	}

	tels := []*string{ptr("0100000001"), ptr("0100000002"), ptr("0200000001")}
	emails := []*string{ptr("recruiter1@example.com"), ptr("recruiter2@example.com"), ptr("admin@example.com")}
	userSpecs := []struct {
		username string
		email    *string
		tel      *string
		role     string
	}{
		{"recruiter_1", emails[0], tels[0], m.RoleRecruiter},
		{"recruiter_2", emails[1], tels[1], m.RoleRecruiter},
		{"admin_user", emails[2], tels[2], m.RoleAdmin},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			Email:    s.email,
			Tel:      s.tel,
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "recruiter_1":
			TestUserRecruiter1 = u
		case "recruiter_2":
			TestUserRecruiter2 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	// Seed job descriptions (only if none exist yet)
	var jdCount int64
	if err := db.Model(&m.JobDescription{}).Count(&jdCount).Error; err != nil {
		return err
	}
	if jdCount == 0 {
		jds := []m.JobDescription{
			{
				FileName:          "backend_engineer_jd.txt",
				FileSavedLocation: "testdata/backend_engineer_jd.txt",
				UploadedBy:        ptr("recruiter_1"),
				IsActive:          true,
			},
			{
				FileName:          "data_analyst_jd.txt",
				FileSavedLocation: "testdata/data_analyst_jd.txt",
				UploadedBy:        ptr("recruiter_2"),
				IsActive:          true,
			},
		}

		if err := db.Create(&jds).Error; err != nil {
			return err
		}
		TestJD1 = jds[0]
		TestJD2 = jds[1]
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"recruiter_1", "recruiter_2", "admin_user",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "recruiter_1":
			TestUserRecruiter1 = u
		case "recruiter_2":
			TestUserRecruiter2 = u
		case "admin_user":
			TestAdminUser = u
		}
	}

	// Load first two job descriptions deterministically
	var jds []m.JobDescription
	if err := db.Order("jd_id ASC").Limit(2).Find(&jds).Error; err == nil {
		if len(jds) > 0 {
			TestJD1 = jds[0]
		}
		if len(jds) > 1 {
			TestJD2 = jds[1]
		}
	}

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
