package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"trailguard/internal/auth"
	"trailguard/internal/geofence"
	"trailguard/pkg/tx"
)

type ImporterSuite struct {
	suite.Suite
	geofences *geofence.MemoryStore
	users     *auth.MemoryStore
	service   *Service
}

func TestImporterSuite(t *testing.T) {
	suite.Run(t, new(ImporterSuite))
}

func (s *ImporterSuite) SetupTest() {
	s.geofences = geofence.NewMemory()
	s.users = auth.NewMemory()
	s.service = NewService(s.geofences, s.users, tx.Nop{}, nil)
}

func (s *ImporterSuite) TestImportGeofences() {
	ctx := context.Background()

	s.Run("valid rows are created active", func() {
		csv := "name,risk_level,coordinates\n" +
			`zone a,high,"[[77.0,12.0],[78.0,12.0],[78.0,13.0],[77.0,13.0]]"` + "\n" +
			`zone b,,"[[0,0],[1,0],[1,1]]"` + "\n"

		result, err := s.service.ImportGeofences(ctx, strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(2, result.Created)
		s.Empty(result.Errors)

		fences, err := s.geofences.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(fences, 2)
		s.Equal(geofence.RiskHigh, fences[0].RiskLevel)
		s.True(fences[0].Active)
		// Missing risk level defaults to low.
		s.Equal(geofence.RiskLow, fences[1].RiskLevel)
	})

	s.Run("bad rows are collected without aborting the batch", func() {
		csv := "name,risk_level,coordinates\n" +
			`,high,"[[0,0],[1,0],[1,1]]"` + "\n" +
			`zone c,extreme,"[[0,0],[1,0],[1,1]]"` + "\n" +
			`zone d,low,not-json` + "\n" +
			`zone e,low,"[[0,0],[1,1]]"` + "\n" +
			`zone f,low,"[[0,0],[1,0],[1,1]]"` + "\n"

		result, err := s.service.ImportGeofences(ctx, strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(1, result.Created)
		s.Require().Len(result.Errors, 4)
		s.Equal(1, result.Errors[0].Row)
		s.Contains(result.Errors[0].Error, "missing name/coordinates")
		s.Equal(2, result.Errors[1].Row)
		s.Contains(result.Errors[1].Error, "invalid risk level")
		s.Equal(3, result.Errors[2].Row)
		s.Contains(result.Errors[2].Error, "invalid coordinates")
		s.Equal(4, result.Errors[3].Row)
	})

	s.Run("uppercase risk level is normalized", func() {
		csv := "name,risk_level,coordinates\n" +
			`zone g,HIGH,"[[0,0],[1,0],[1,1]]"` + "\n"

		result, err := s.service.ImportGeofences(ctx, strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(1, result.Created)
	})

	s.Run("empty file imports nothing", func() {
		result, err := s.service.ImportGeofences(ctx, strings.NewReader(""))
		s.Require().NoError(err)
		s.Equal(0, result.Created)
		s.Empty(result.Errors)
	})
}

func (s *ImporterSuite) TestImportUsers() {
	ctx := context.Background()

	s.Run("valid rows create users with hashed passwords", func() {
		csv := "email,password,role\n" +
			"alice@example.com,pw1,admin\n" +
			"bob@example.com,pw2,\n"

		result, err := s.service.ImportUsers(ctx, strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(2, result.Created)
		s.Empty(result.Errors)

		alice, err := s.users.ByEmail(ctx, "alice@example.com")
		s.Require().NoError(err)
		s.Equal(auth.RoleAdmin, alice.Role)
		s.NotEqual("pw1", alice.PasswordHash)

		// Missing role defaults to tourist.
		bob, err := s.users.ByEmail(ctx, "bob@example.com")
		s.Require().NoError(err)
		s.Equal(auth.RoleTourist, bob.Role)
	})

	s.Run("existing emails are skipped silently", func() {
		csv := "email,password,role\n" +
			"alice@example.com,newpw,tourist\n" +
			"carol@example.com,pw3,police\n"

		result, err := s.service.ImportUsers(ctx, strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(1, result.Created)
		s.Empty(result.Errors)

		// The existing account is untouched.
		alice, err := s.users.ByEmail(ctx, "alice@example.com")
		s.Require().NoError(err)
		s.Equal(auth.RoleAdmin, alice.Role)
	})

	s.Run("bad rows are collected", func() {
		csv := "email,password,role\n" +
			",pw,tourist\n" +
			"dan@example.com,,tourist\n" +
			"erin@example.com,pw,overlord\n"

		result, err := s.service.ImportUsers(ctx, strings.NewReader(csv))
		s.Require().NoError(err)
		s.Equal(0, result.Created)
		s.Require().Len(result.Errors, 3)
		s.Contains(result.Errors[0].Error, "missing email/password")
		s.Contains(result.Errors[1].Error, "missing email/password")
		s.Contains(result.Errors[2].Error, "invalid role")
	})
}
