package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/VoxDroid/cqe/internal/models"
)

var soeidRE = regexp.MustCompile(`^[A-Za-z]{2}\d{5}$`)

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SOEID    string `json:"soeid"`
		Passcode string `json:"passcode"`
	}
	if !decode(w, r, &in) {
		return
	}
	soeid := strings.ToUpper(strings.TrimSpace(in.SOEID))
	if soeid == "" || in.Passcode == "" {
		writeError(w, http.StatusBadRequest, "SOEID and passcode are required")
		return
	}
	if len(in.Passcode) != 4 {
		writeError(w, http.StatusBadRequest, "Passcode must be 4 digits")
		return
	}
	a, tok, ok := s.data.login(soeid, in.Passcode)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid SOEID or passcode")
		return
	}
	s.logger.Info("login", zap.String("soeid", a.SOEID))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   tok,
		"user": map[string]any{
			"user_id": a.ID,
			"soeid":   a.SOEID,
			"name":    a.Name,
			"role":    a.Role,
			"team_id": a.TeamID,
		},
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if !decode(w, r, &in) {
		return
	}
	if !soeidRE.MatchString(in.SOEID) {
		writeError(w, http.StatusBadRequest, "SOEID must be 2 letters followed by 5 digits")
		return
	}
	if in.ManagerSOEID != "" && !soeidRE.MatchString(in.ManagerSOEID) {
		writeError(w, http.StatusBadRequest, "Manager SOEID must be 2 letters followed by 5 digits")
		return
	}
	if len(in.Passcode) != 4 {
		writeError(w, http.StatusBadRequest, "Passcode must be 4 digits")
		return
	}
	if strings.TrimSpace(in.FullName) == "" {
		writeError(w, http.StatusBadRequest, "Full name is required")
		return
	}
	err := s.data.register(account{
		SOEID:    strings.ToUpper(in.SOEID),
		Name:     in.FullName,
		Passcode: in.Passcode,
		Role:     "Developer",
	})
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Registration successful"})
}

func (s *Server) handleValidateZephyrToken(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"zephyr_token"`
	}
	if !decode(w, r, &in) {
		return
	}
	if len(strings.TrimSpace(in.Token)) < 8 {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Invalid Zephyr token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Token is valid"})
}

func (s *Server) handleUserProjects(w http.ResponseWriter, _ *http.Request) {
	projects := s.data.listProjects()
	out := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		out = append(out, map[string]any{"value": p.ID, "label": p.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "projects": out})
}

func (s *Server) handleReleasesByProject(w http.ResponseWriter, r *http.Request) {
	pid, err := atoiID(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.data.projectExists(pid) {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	releases := s.data.releasesFor(pid)
	out := make([]map[string]any, 0, len(releases))
	for _, rel := range releases {
		out = append(out, map[string]any{
			"value":      rel.ID,
			"label":      rel.Name,
			"start_date": rel.StartDate,
			"end_date":   rel.EndDate,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "releases": out})
}

func (s *Server) handleCreateRelease(w http.ResponseWriter, r *http.Request) {
	var in models.CreateReleaseRequest
	if !decode(w, r, &in) {
		return
	}
	pid, err := atoiID(in.ProjectID.String())
	if err != nil || !s.data.projectExists(pid) {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if strings.TrimSpace(in.ReleaseName) == "" || strings.TrimSpace(in.BuildRelease) == "" {
		writeError(w, http.StatusBadRequest, "Release name and build release are required")
		return
	}
	start, err1 := time.Parse(time.DateOnly, in.StartDate)
	end, err2 := time.Parse(time.DateOnly, in.EndDate)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "Dates must be in YYYY-MM-DD format")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "End date must be after start date")
		return
	}
	id := s.data.addRelease(release{
		ProjectID:            pid,
		Name:                 in.ReleaseName,
		BuildRelease:         in.BuildRelease,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		UsePreviousStructure: in.UsePreviousStructure,
		PreviousBuildRelease: in.PreviousBuildRelease,
		Phases: map[string]int{
			"load_test":       in.Phases.LoadTest,
			"endurance_test":  in.Phases.EnduranceTest,
			"sanity_test":     in.Phases.SanityTest,
			"standalone_test": in.Phases.StandaloneTest,
		},
		CreatedBy: in.UserSOEID,
	})
	s.logger.Info("release created", zap.Int("release_id", id), zap.Int("project_id", pid))
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    fmt.Sprintf("Release %q created", in.ReleaseName),
		"release_id": id,
	})
}

func (s *Server) handleImportRequirements(w http.ResponseWriter, r *http.Request) {
	var in models.ImportRequirementsRequest
	if !decode(w, r, &in) {
		return
	}
	pid, err := atoiID(in.ProjectID.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	rid, err := atoiID(in.ReleaseID.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "release_id is required")
		return
	}
	if !s.data.releaseInProject(rid, pid) {
		writeError(w, http.StatusNotFound, "Release not found for project")
		return
	}
	n := 0
	for _, row := range in.Requirements {
		if strings.TrimSpace(row.FolderName) != "" && strings.TrimSpace(row.JQL) != "" {
			n++
		}
	}
	if n == 0 {
		writeError(w, http.StatusBadRequest, "At least one requirement with folder name and JQL is required")
		return
	}
	s.data.recordImport(importJob{ReleaseID: rid, ProjectID: pid, Rows: n})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Imported " + strconv.Itoa(n) + " requirement folders",
	})
}

// Dashboard counters are fixed.
func (s *Server) handleZephyrStats(w http.ResponseWriter, r *http.Request) {
	if !s.checkStatsParams(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": models.ZephyrStats{
		TotalTestCases: 245,
		ExecutionRate:  87,
		PassRate:       92,
		OpenDefects:    17,
		ActiveCycles:   3,
		Requirements:   156,
	}})
}

func (s *Server) handleJiraStats(w http.ResponseWriter, r *http.Request) {
	if !s.checkStatsParams(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": models.JiraStats{
		OpenIssues:     42,
		InProgress:     28,
		Resolved:       134,
		BacklogItems:   89,
		SprintProgress: 67,
		TeamVelocity:   45,
	}})
}

func (s *Server) checkStatsParams(w http.ResponseWriter, r *http.Request) bool {
	pid, err := atoiID(chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	rid, err := atoiID(chi.URLParam(r, "releaseID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if !s.data.releaseInProject(rid, pid) {
		writeError(w, http.StatusNotFound, "Release not found for project")
		return false
	}
	return true
}
