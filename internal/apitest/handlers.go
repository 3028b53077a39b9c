package apitest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
)

// Auth ------------------------------------------------------------------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	rec, ok := s.byEmail[req.Email]
	if !ok || rec.password != req.Password {
		s.mu.Unlock()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	creds := s.issueLocked(rec.user.ID)
	user := rec.user
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"tokens": gin.H{
			"access":  creds.AccessToken,
			"refresh": creds.RefreshToken,
		},
		"message": "Login successful",
	})
}

type registerRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fields := make(map[string][]string)
	if req.Email == "" {
		fields["email"] = []string{"This field is required."}
	}
	if req.Username == "" {
		fields["username"] = []string{"This field is required."}
	}
	if len(req.Password) < 8 {
		fields["password"] = []string{"Ensure this field has at least 8 characters."}
	}
	if req.Role != string(domain.RoleJobSeeker) && req.Role != string(domain.RoleEmployer) {
		fields["role"] = []string{fmt.Sprintf("%q is not a valid choice.", req.Role)}
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, fields)
		return
	}

	s.mu.Lock()
	if _, exists := s.byEmail[req.Email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"email": []string{"user with this email already exists."}})
		return
	}

	s.nextUser++
	rec := &userRecord{
		user: domain.User{
			ID:          s.nextUser,
			Email:       req.Email,
			Username:    req.Username,
			Role:        domain.Role(req.Role),
			PhoneNumber: req.PhoneNumber,
			DateJoined:  time.Now().UTC(),
		},
		password: req.Password,
	}
	s.users[rec.user.ID] = rec
	s.byEmail[req.Email] = rec
	creds := s.issueLocked(rec.user.ID)
	user := rec.user
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
		"tokens": gin.H{
			"access":  creds.AccessToken,
			"refresh": creds.RefreshToken,
		},
		"message": "Registration successful",
	})
}

func (s *Server) logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	s.mu.Lock()
	delete(s.refresh, req.RefreshToken)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (s *Server) currentUser(c *gin.Context) {
	user, _ := currentIdentity(c)
	c.JSON(http.StatusOK, user)
}

// Jobs ------------------------------------------------------------------

func (s *Server) jobViewLocked(rec *jobRecord, viewer *domain.User) domain.Job {
	job := rec.job
	if viewer != nil {
		job.IsSaved = s.saved[savedKey{userID: viewer.ID, jobID: job.ID}]
	}
	count := 0
	for _, app := range s.apps {
		if app.JobID == job.ID {
			count++
		}
	}
	job.ApplicationCount = count
	if poster, ok := s.users[rec.posterID]; ok {
		posterUser := poster.user
		job.PostedBy = &posterUser
	}
	return job
}

func (s *Server) listJobs(c *gin.Context) {
	var viewer *domain.User
	if user, ok := currentIdentity(c); ok {
		viewer = &user
	}

	s.mu.Lock()
	jobs := make([]domain.Job, 0, len(s.jobs))
	for _, rec := range s.jobs {
		if rec.job.Status != domain.JobStatusActive {
			continue
		}
		jobs = append(jobs, s.jobViewLocked(rec, viewer))
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, jobs)
}

func (s *Server) getJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	var viewer *domain.User
	if user, ok := currentIdentity(c); ok {
		viewer = &user
	}

	s.mu.Lock()
	rec, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	job := s.jobViewLocked(rec, viewer)
	s.mu.Unlock()

	c.JSON(http.StatusOK, job)
}

func (s *Server) createJob(c *gin.Context) {
	user, _ := currentIdentity(c)
	if user.Role != domain.RoleEmployer && user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only employers can post jobs"})
		return
	}

	var input domain.JobCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"title": []string{"This field is required."}})
		return
	}

	s.mu.Lock()
	s.nextJob++
	rec := &jobRecord{
		job: domain.Job{
			ID:           s.nextJob,
			Title:        input.Title,
			Description:  input.Description,
			Category:     input.Category,
			Location:     input.Location,
			JobType:      input.JobType,
			Requirements: input.Requirements,
			Deadline:     input.Deadline,
			IsInternship: input.IsInternship,
			Remote:       input.Remote,
			Status:       domain.JobStatusActive,
			CreatedAt:    time.Now().UTC(),
		},
		posterID: user.ID,
	}
	s.jobs[rec.job.ID] = rec
	job := s.jobViewLocked(rec, &user)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, job)
}

func (s *Server) saveJob(c *gin.Context) {
	user, _ := currentIdentity(c)
	if user.Role != domain.RoleJobSeeker {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only job seekers can save jobs"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	s.ops = append(s.ops, fmt.Sprintf("save %d", id))
	key := savedKey{userID: user.ID, jobID: id}
	if s.saved[key] {
		c.JSON(http.StatusOK, gin.H{"message": "Job already saved"})
		return
	}
	s.saved[key] = true
	c.JSON(http.StatusCreated, gin.H{"message": "Job saved"})
}

func (s *Server) unsaveJob(c *gin.Context) {
	user, _ := currentIdentity(c)
	if user.Role != domain.RoleJobSeeker {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only job seekers can save jobs"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, fmt.Sprintf("unsave %d", id))
	key := savedKey{userID: user.ID, jobID: id}
	if !s.saved[key] {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job is not saved"})
		return
	}
	delete(s.saved, key)
	c.JSON(http.StatusOK, gin.H{"message": "Job removed from saved"})
}

func (s *Server) savedJobs(c *gin.Context) {
	user, _ := currentIdentity(c)

	s.mu.Lock()
	rows := make([]gin.H, 0)
	i := int64(0)
	for key := range s.saved {
		if key.userID != user.ID {
			continue
		}
		rec, ok := s.jobs[key.jobID]
		if !ok {
			continue
		}
		i++
		rows = append(rows, gin.H{
			"id":       i,
			"job":      s.jobViewLocked(rec, &user),
			"saved_at": time.Now().UTC(),
		})
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, rows)
}

// Applications ----------------------------------------------------------

func (s *Server) createApplication(c *gin.Context) {
	user, _ := currentIdentity(c)
	if user.Role != domain.RoleJobSeeker {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only job seekers can apply for jobs"})
		return
	}

	var req struct {
		Job         int64  `json:"job"`
		CoverLetter string `json:"cover_letter"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[req.Job]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if rec.job.Status != domain.JobStatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This job is not accepting applications"})
		return
	}
	for _, app := range s.apps {
		if app.JobID == req.Job && app.ApplicantID == user.ID {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already applied to this job"})
			return
		}
	}

	s.nextApp++
	app := &domain.Application{
		ID:          s.nextApp,
		JobID:       req.Job,
		ApplicantID: user.ID,
		CoverLetter: req.CoverLetter,
		Status:      domain.ApplicationStatusPending,
		AppliedDate: time.Now().UTC(),
	}
	s.apps[app.ID] = app

	c.JSON(http.StatusCreated, *app)
}

// listApplications scopes by role: seekers see their own candidacies,
// employers see applications against their postings, admins see everything.
func (s *Server) listApplications(c *gin.Context) {
	user, _ := currentIdentity(c)

	s.mu.Lock()
	apps := make([]domain.Application, 0)
	for _, app := range s.apps {
		switch user.Role {
		case domain.RoleJobSeeker:
			if app.ApplicantID != user.ID {
				continue
			}
		case domain.RoleEmployer:
			rec, ok := s.jobs[app.JobID]
			if !ok || rec.posterID != user.ID {
				continue
			}
		}
		apps = append(apps, *app)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, apps)
}

func (s *Server) applicationsForJob(c *gin.Context) {
	user, _ := currentIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	if user.Role == domain.RoleJobSeeker || (user.Role == domain.RoleEmployer && rec.posterID != user.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view these applications"})
		return
	}

	apps := make([]domain.Application, 0)
	for _, app := range s.apps {
		if app.JobID == id {
			apps = append(apps, *app)
		}
	}
	c.JSON(http.StatusOK, apps)
}

func (s *Server) updateApplicationStatus(c *gin.Context) {
	user, _ := currentIdentity(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	rec := s.jobs[app.JobID]
	if user.Role == domain.RoleJobSeeker || (user.Role == domain.RoleEmployer && (rec == nil || rec.posterID != user.ID)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to update this application"})
		return
	}
	if !domain.ValidApplicationStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	app.Status = req.Status
	c.JSON(http.StatusOK, *app)
}
