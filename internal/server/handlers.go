package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/mrz1836/gitmate/internal/constants"
	gmerrors "github.com/mrz1836/gitmate/internal/errors"
	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/repository"
)

// envelope is the part every response shares.
type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Status  repository.FinalStatus `json:"status,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Action  string                 `json:"action,omitempty"`
}

type outcomeResponse struct {
	envelope
	Operation  string                  `json:"operation"`
	Warning    string                  `json:"warning,omitempty"`
	CommitHash string                  `json:"commit_hash,omitempty"`
	Branch     string                  `json:"branch,omitempty"`
	UpToDate   bool                    `json:"up_to_date,omitempty"`
	Stage      []repository.PathResult `json:"stage,omitempty"`
	Steps      []repository.Step       `json:"steps"`
}

type statusResponse struct {
	envelope
	GitInstalled bool   `json:"git_installed"`
	GitMessage   string `json:"git_message"`
	ProjectPath  string `json:"project_path"`
	*repository.State
}

type historyResponse struct {
	envelope
	Commits []string `json:"commits"`
}

type branchesResponse struct {
	envelope
	Branches []git.Branch `json:"branches"`
	Current  string       `json:"current"`
}

type initRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type addRequest struct {
	Files []string `json:"files"`
}

type commitRequest struct {
	Message string `json:"message"`
}

type branchRequest struct {
	Name string `json:"name"`
}

type remoteRequest struct {
	URL  string `json:"url"`
	Push bool   `json:"push"`
}

type pushRequest struct {
	FirstPush bool `json:"first_push"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{ProjectPath: s.repo.Root()}

	inst, err := s.repo.CheckInstallation(r.Context())
	if err != nil {
		resp.envelope = failure(err)
		resp.GitMessage = gmerrors.UserMessage(err)
		writeJSON(w, r, statusFor(err), resp)
		return
	}
	resp.GitInstalled = true
	resp.GitMessage = "git " + inst.Version

	st, err := s.repo.State(r.Context())
	if err != nil {
		resp.envelope = failure(err)
		writeJSON(w, r, statusFor(err), resp)
		return
	}
	resp.State = st
	resp.Success = true
	if st.Initialized {
		resp.Message = fmt.Sprintf("%d changed file(s)", len(st.Changes))
	} else {
		resp.Message = "not a git repository"
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if !decode(w, r, &req) {
		return
	}
	identity := s.identity
	if req.Name != "" || req.Email != "" {
		identity = repository.InitRequest{Name: req.Name, Email: req.Email}
	}
	s.writeOutcome(w, r, s.repo.Initialize(r.Context(), identity))
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !decode(w, r, &req) {
		return
	}
	stage := repository.StageRequest{All: len(req.Files) == 0}
	if len(req.Files) == 1 && req.Files[0] == "all" {
		stage.All = true
	} else if !stage.All {
		stage.Paths = req.Files
	}
	s.writeOutcome(w, r, s.repo.Stage(r.Context(), stage))
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, r, s.repo.CommitStaged(r.Context(), repository.CommitRequest{Message: req.Message}))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > constants.MaxHistoryLimit {
			writeJSON(w, r, http.StatusBadRequest, badRequest(
				fmt.Errorf("limit %q must be an integer in 0..%d: %w", raw, constants.MaxHistoryLimit, gmerrors.ErrInvalidArgument)))
			return
		}
		limit = n
	}
	detailed := r.URL.Query().Get("detailed") == "true"

	commits, err := s.repo.History(r.Context(), limit, detailed)
	if err != nil {
		writeJSON(w, r, statusFor(err), historyResponse{envelope: failure(err), Commits: []string{}})
		return
	}
	writeJSON(w, r, http.StatusOK, historyResponse{
		envelope: envelope{Success: true, Message: fmt.Sprintf("%d commit(s)", len(commits))},
		Commits:  commits,
	})
}

func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.Branches(r.Context())
	if err != nil {
		writeJSON(w, r, statusFor(err), branchesResponse{envelope: failure(err), Branches: []git.Branch{}})
		return
	}
	writeJSON(w, r, http.StatusOK, branchesResponse{
		envelope: envelope{Success: true, Message: fmt.Sprintf("%d branch(es)", len(list.Branches))},
		Branches: list.Branches,
		Current:  list.Current,
	})
}

func (s *Server) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, r, s.repo.CreateBranch(r.Context(), req.Name))
}

func (s *Server) handleSwitchBranch(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, r, s.repo.SwitchBranch(r.Context(), req.Name))
}

func (s *Server) handleRemoteSetup(w http.ResponseWriter, r *http.Request) {
	var req remoteRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, r, s.repo.Publish(r.Context(), repository.PublishRequest{URL: req.URL, Push: req.Push}))
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if !decode(w, r, &req) {
		return
	}
	s.writeOutcome(w, r, s.repo.Push(r.Context(), repository.PushRequest{First: req.FirstPush}))
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	s.writeOutcome(w, r, s.repo.Pull(r.Context()))
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	s.writeOutcome(w, r, s.repo.QuickBackup(r.Context()))
}

func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, out *repository.Outcome) {
	resp := outcomeResponse{
		envelope: envelope{
			Success: out.Succeeded(),
			Message: out.Message,
			Status:  out.Status,
			Error:   out.ErrorText(),
		},
		Operation:  out.Operation,
		Warning:    out.WarningText(),
		CommitHash: out.CommitHash,
		Branch:     out.Branch,
		UpToDate:   out.UpToDate,
		Stage:      out.Stage,
		Steps:      out.Steps,
	}
	switch {
	case out.Err != nil:
		_, resp.Action = gmerrors.Actionable(out.Err)
	case out.Warning != nil:
		_, resp.Action = gmerrors.Actionable(out.Warning)
	}

	code := http.StatusOK
	if out.Err != nil {
		code = statusFor(out.Err)
	}
	writeJSON(w, r, code, resp)
}

// decode reads an optional JSON body into v. An empty body leaves v at its
// zero value. On malformed input it writes a 400 and returns false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeJSON(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("malformed JSON body: %w", err)))
	return false
}

func failure(err error) envelope {
	msg, action := gmerrors.Actionable(err)
	return envelope{Success: false, Message: msg, Error: err.Error(), Action: action}
}

func badRequest(err error) envelope {
	env := failure(err)
	env.Message = "invalid request"
	return env
}

// statusFor maps an operation error to its HTTP status. Only a busy
// repository is distinguished; everything else is reported in the body.
func statusFor(err error) int {
	if errors.Is(err, gmerrors.ErrLockTimeout) {
		return http.StatusConflict
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}
