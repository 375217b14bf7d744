package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitmate/internal/git"
	"github.com/mrz1836/gitmate/internal/repository"
	"github.com/mrz1836/gitmate/internal/testutil"
)

const testRoot = "/work/repo"

type apiFixture struct {
	exec    *testutil.ScriptedExecutor
	locks   *repository.LockManager
	handler http.Handler
}

func newAPIFixture(t *testing.T, initialized bool) *apiFixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	if initialized {
		require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, ".git"), 0o755))
	}
	exec := testutil.NewScriptedExecutor()
	locks := repository.NewLockManager(100*time.Millisecond, repository.WithoutFileLock())
	seq := repository.New(git.NewRunner(exec, testRoot),
		repository.WithFs(fs),
		repository.WithLockManager(locks),
	)

	return &apiFixture{exec: exec, locks: locks, handler: New(seq, WithHistoryLimit(5)).Handler()}
}

func (f *apiFixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequestWithContext(context.Background(), method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Code != http.StatusMethodNotAllowed && rec.Code != http.StatusNotFound {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	}
	return rec, payload
}

func TestStatus(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("--version", testutil.OK("git version 2.43.0\n")).
		On("status", testutil.OK("## main...origin/main [ahead 1]\n M a.txt\n?? b.txt\n"))

	rec, body := f.do(t, http.MethodGet, "/api/status", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["git_installed"])
	assert.Equal(t, "git 2.43.0", body["git_message"])
	assert.Equal(t, testRoot, body["project_path"])
	assert.Equal(t, "main", body["current_branch"])
	assert.InDelta(t, 1, body["ahead"], 0)
	assert.Len(t, body["changes"], 2)
}

func TestStatus_Uninitialized(t *testing.T) {
	f := newAPIFixture(t, false)
	f.exec.On("--version", testutil.OK("git version 2.43.0\n"))

	_, body := f.do(t, http.MethodGet, "/api/status", "")

	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["initialized"])
	assert.Zero(t, f.exec.Count("status"))
}

func TestStatus_GitMissing(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("--version", testutil.Response{ExitCode: -1, Failure: git.FailureNotFound, Stderr: "version-control tool not found"})

	_, body := f.do(t, http.MethodGet, "/api/status", "")

	assert.Equal(t, false, body["success"])
	assert.Equal(t, false, body["git_installed"])
	assert.NotEmpty(t, body["action"])
}

func TestStatus_LockTimeoutIsConflict(t *testing.T) {
	f := newAPIFixture(t, true)
	release, err := f.locks.Acquire(context.Background(), testRoot)
	require.NoError(t, err)
	defer release()

	rec, body := f.do(t, http.MethodGet, "/api/status", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestCommit_MalformedJSON(t *testing.T) {
	f := newAPIFixture(t, true)

	rec, body := f.do(t, http.MethodPost, "/api/commit", `{"message":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, f.exec.Calls())
}

func TestCommit_EmptyMessage(t *testing.T) {
	f := newAPIFixture(t, true)

	rec, body := f.do(t, http.MethodPost, "/api/commit", `{"message":"   "}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "failed", body["status"])
	assert.Empty(t, f.exec.Calls())
}

func TestCommit_Success(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("config --get user.name", testutil.OK("Jane\n")).
		On("config --get user.email", testutil.OK("jane@example.com\n")).
		On("diff --cached --quiet", testutil.Fail(1, "")).
		On("rev-parse --short HEAD", testutil.OK("abc1234\n"))

	_, body := f.do(t, http.MethodPost, "/api/commit", `{"message":"save work"}`)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc1234", body["commit_hash"])
	assert.Equal(t, 1, f.exec.Count("commit -m"))
}

func TestAdd_FileSelection(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantAll   int
		wantPaths int
	}{
		{"absent files", `{}`, 1, 0},
		{"empty body", ``, 1, 0},
		{"all keyword", `{"files":["all"]}`, 1, 0},
		{"explicit", `{"files":["a.txt","b.txt"]}`, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t, true)

			_, body := f.do(t, http.MethodPost, "/api/add", tt.body)

			assert.Equal(t, true, body["success"])
			assert.Equal(t, tt.wantAll, f.exec.Count("add -A"))
			assert.Equal(t, tt.wantPaths, f.exec.Count("add --"))
		})
	}
}

func TestBackup_LocalOnly(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("status", testutil.OK("## main\n M a.txt\n")).
		On("rev-parse --short HEAD", testutil.OK("abc1234\n")).
		On("remote", testutil.OK(""))

	_, body := f.do(t, http.MethodPost, "/api/backup", "")

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "success_local_only", body["status"])
	assert.Zero(t, f.exec.Count("push"))
	steps, ok := body["steps"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, steps)
}

func TestHistory(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("log", testutil.OK("* abc1234 first\n* def5678 second\n"))

	_, body := f.do(t, http.MethodGet, "/api/history?limit=3", "")

	assert.Equal(t, true, body["success"])
	assert.Len(t, body["commits"], 2)
	assert.Equal(t, []string{"log --graph --oneline --decorate -3"}, f.exec.Commands())
}

func TestHistory_DefaultLimit(t *testing.T) {
	f := newAPIFixture(t, true)

	f.do(t, http.MethodGet, "/api/history", "")

	assert.Equal(t, []string{"log --graph --oneline --decorate -5"}, f.exec.Commands())
}

func TestHistory_InvalidLimit(t *testing.T) {
	f := newAPIFixture(t, true)

	for _, limit := range []string{"abc", "-1", "1001"} {
		rec, body := f.do(t, http.MethodGet, "/api/history?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
		assert.Equal(t, false, body["success"])
	}
	assert.Empty(t, f.exec.Calls())
}

func TestBranches(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("branch --list", testutil.OK("* main\n  feature\n"))

	_, body := f.do(t, http.MethodGet, "/api/branches", "")

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "main", body["current"])
	assert.Len(t, body["branches"], 2)
}

func TestSwitchBranch_Unknown(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("branch --list", testutil.OK("* main\n"))

	_, body := f.do(t, http.MethodPost, "/api/branch/switch", `{"name":"nope"}`)

	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "branch not found")
	assert.Zero(t, f.exec.Count("checkout"))
}

func TestPush_FirstPush(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("remote", testutil.OK("origin\n")).
		On("branch --show-current", testutil.OK("main\n"))

	_, body := f.do(t, http.MethodPost, "/api/push", `{"first_push":true}`)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "main", body["branch"])
	assert.Equal(t, 1, f.exec.Count("push -u origin main"))
}

func TestPush_NoRemote(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("remote", testutil.OK(""))

	_, body := f.do(t, http.MethodPost, "/api/push", `{}`)

	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["action"])
	assert.Zero(t, f.exec.Count("push"))
}

func TestRemoteSetup_EmptyURL(t *testing.T) {
	f := newAPIFixture(t, true)

	_, body := f.do(t, http.MethodPost, "/api/remote/setup", `{"url":""}`)

	assert.Equal(t, false, body["success"])
	assert.Empty(t, f.exec.Calls())
}

func TestPull_UpToDate(t *testing.T) {
	f := newAPIFixture(t, true)
	f.exec.On("remote", testutil.OK("origin\n")).
		On("pull", testutil.OK("Already up to date.\n"))

	_, body := f.do(t, http.MethodPost, "/api/pull", "")

	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["up_to_date"])
}

func TestInit_UsesBodyIdentity(t *testing.T) {
	f := newAPIFixture(t, false)

	_, body := f.do(t, http.MethodPost, "/api/init", `{"name":"Jane","email":"jane@example.com"}`)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, 1, f.exec.Count("config user.name Jane"))
	assert.Equal(t, 1, f.exec.Count("config user.email jane@example.com"))
}

func TestMethodNotAllowed(t *testing.T) {
	f := newAPIFixture(t, true)

	rec, _ := f.do(t, http.MethodGet, "/api/commit", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	f := newAPIFixture(t, true)

	rec, _ := f.do(t, http.MethodGet, "/api/branches", "")

	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	require.NoError(t, err)
}

func TestServe_ShutsDownWithContext(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, ".git"), 0o755))
	seq := repository.New(git.NewRunner(testutil.NewScriptedExecutor(), testRoot),
		repository.WithFs(fs),
		repository.WithLockManager(repository.NewLockManager(time.Second, repository.WithoutFileLock())),
	)
	srv := New(seq)

	ln, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+ln.Addr().String()+"/api/branches", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
