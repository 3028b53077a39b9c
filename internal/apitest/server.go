// Package apitest is an in-process stand-in for the job marketplace API,
// speaking the same wire dialect as the real server: bearer-token auth,
// {"error": ...} rejections and DRF-style field maps. Test suites run it
// under httptest and point the REST client at it.
package apitest

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
)

type userRecord struct {
	user     domain.User
	password string
}

type jobRecord struct {
	job      domain.Job
	posterID int64
}

type savedKey struct {
	userID int64
	jobID  int64
}

// Server holds the fake marketplace state. All mutators are safe for
// concurrent use; handlers serialize on one mutex like a single-writer
// store would.
type Server struct {
	engine *gin.Engine

	mu       sync.Mutex
	secret   []byte
	users    map[int64]*userRecord
	byEmail  map[string]*userRecord
	jobs     map[int64]*jobRecord
	saved    map[savedKey]bool
	apps     map[int64]*domain.Application
	refresh  map[string]int64
	nextUser int64
	nextJob  int64
	nextApp  int64

	delay    time.Duration
	requests atomic.Int64
	ops      []string
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:  []byte(uuid.NewString()),
		users:   make(map[int64]*userRecord),
		byEmail: make(map[string]*userRecord),
		jobs:    make(map[int64]*jobRecord),
		saved:   make(map[savedKey]bool),
		apps:    make(map[int64]*domain.Application),
		refresh: make(map[string]int64),
	}

	r := gin.New()
	r.Use(s.track)

	r.POST("/auth/login/", s.login)
	r.POST("/auth/register/", s.register)
	r.POST("/auth/logout/", s.auth(true), s.logout)
	r.GET("/auth/user/", s.auth(true), s.currentUser)

	r.GET("/jobs/", s.auth(false), s.listJobs)
	r.POST("/jobs/", s.auth(true), s.createJob)
	r.GET("/jobs/saved/", s.auth(true), s.savedJobs)
	r.GET("/jobs/:id/", s.auth(false), s.getJob)
	r.POST("/jobs/:id/save/", s.auth(true), s.saveJob)
	r.DELETE("/jobs/:id/save/", s.auth(true), s.unsaveJob)

	r.POST("/applications/create/", s.auth(true), s.createApplication)
	r.GET("/applications/", s.auth(true), s.listApplications)
	r.GET("/applications/job/:id/", s.auth(true), s.applicationsForJob)
	r.PUT("/applications/:id/update-status/", s.auth(true), s.updateApplicationStatus)

	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Requests reports how many requests reached the server; tests use it to
// assert that an operation made no network call at all.
func (s *Server) Requests() int64 { return s.requests.Load() }

// Operations returns the ordered save/unsave history, for asserting that
// racing toggles were serialized rather than interleaved.
func (s *Server) Operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ops))
	copy(out, s.ops)
	return out
}

// SetDelay makes every request sleep first, widening race windows.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// RevokeAccessTokens rotates the signing secret so every previously issued
// access token fails verification from now on.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	s.secret = []byte(uuid.NewString())
	s.mu.Unlock()
}

// Seeding ----------------------------------------------------------------

func (s *Server) SeedUser(email, username, password string, role domain.Role) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUser++
	rec := &userRecord{
		user: domain.User{
			ID:         s.nextUser,
			Email:      email,
			Username:   username,
			Role:       role,
			IsVerified: true,
			DateJoined: time.Now().UTC(),
		},
		password: password,
	}
	s.users[rec.user.ID] = rec
	s.byEmail[email] = rec
	return rec.user
}

func (s *Server) SeedJob(posterID int64, title, status string) domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextJob++
	rec := &jobRecord{
		job: domain.Job{
			ID:           s.nextJob,
			Title:        title,
			Description:  "seeded",
			Category:     "Engineering",
			Location:     "Remote",
			JobType:      domain.JobTypeFullTime,
			Requirements: "seeded",
			Status:       status,
			Remote:       true,
			CreatedAt:    time.Now().UTC(),
		},
		posterID: posterID,
	}
	s.jobs[rec.job.ID] = rec
	return rec.job
}

func (s *Server) SeedSaved(userID, jobID int64) {
	s.mu.Lock()
	s.saved[savedKey{userID: userID, jobID: jobID}] = true
	s.mu.Unlock()
}

func (s *Server) SeedApplication(jobID, applicantID int64) domain.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextApp++
	app := &domain.Application{
		ID:          s.nextApp,
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      domain.ApplicationStatusPending,
		AppliedDate: time.Now().UTC(),
	}
	s.apps[app.ID] = app
	return *app
}

// Saved reports server-side truth for a relation.
func (s *Server) Saved(userID, jobID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[savedKey{userID: userID, jobID: jobID}]
}

// TokensFor issues a credential pair for a seeded user, as if the user had
// logged in.
func (s *Server) TokensFor(userID int64) domain.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

func (s *Server) issueLocked(userID int64) domain.Credentials {
	rec := s.users[userID]
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(rec.user.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	access, err := token.SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}

	refreshToken := uuid.NewString()
	s.refresh[refreshToken] = userID

	return domain.Credentials{AccessToken: access, RefreshToken: refreshToken}
}

// Middleware -------------------------------------------------------------

func (s *Server) track(c *gin.Context) {
	s.requests.Add(1)
	s.mu.Lock()
	delay := s.delay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	c.Next()
}

// auth resolves the bearer token. With required=false an absent or invalid
// token just leaves the request unauthenticated, matching the server's
// read-only endpoints.
func (s *Server) auth(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) > 7 && header[:7] == "Bearer " {
			if user, ok := s.verify(header[7:]); ok {
				c.Set("user", user)
				c.Next()
				return
			}
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
		}
		if required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

func (s *Server) verify(tokenString string) (domain.User, bool) {
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return domain.User{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.User{}, false
	}
	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.User{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userID]
	if !ok {
		return domain.User{}, false
	}
	return rec.user, true
}

func currentIdentity(c *gin.Context) (domain.User, bool) {
	value, ok := c.Get("user")
	if !ok {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}
