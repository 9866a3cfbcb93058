package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jorgebenaventee/taskify/internal/pkg/config"
	"github.com/jorgebenaventee/taskify/internal/taskify/api/server"
	"github.com/jorgebenaventee/taskify/internal/taskify/app"
	"github.com/jorgebenaventee/taskify/internal/taskify/domain/models"
	"github.com/jorgebenaventee/taskify/internal/taskify/services/boardservice"

	"github.com/stretchr/testify/suite"
)

type TaskifySuite struct {
	suite.Suite
	app     app.TaskifyApp
	cancel  context.CancelFunc
	baseURL string
	client  *http.Client
}

var (
	adminUsername  = "board_admin"
	adminPassword  = "qwerty123"
	memberUsername = "board_member"
	memberPassword = "qwerty456"
)

func (ts *TaskifySuite) SetupSuite() {
	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "up", "--build", "-d")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		ts.T().Fatalf("cannot start docker compose error: %v", err)
	}

	cfg, err := config.New("config_test.yaml")
	if err != nil {
		ts.T().Fatalf("cannot get config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	a, err := app.New(ctx, cfg)
	if err != nil {
		cancel()
		ts.T().Fatalf("cannot get app error: %v", err)
	}

	ts.app = a
	ts.cancel = cancel
	ts.baseURL = "http://" + cfg.Server.Addr + "/api"
	ts.client = &http.Client{Timeout: time.Second * 5}

	go a.Run(ctx)
	time.Sleep(time.Second * 2)
}

func (ts *TaskifySuite) TearDownSuite() {
	ts.cancel()

	cmd := exec.Command("docker", "compose", "-f", "./test-compose.yaml", "down", "-v")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		ts.T().Fatalf("cannot down docker containers error: %v", err)
	}
}

func (ts *TaskifySuite) do(method, path, token string, body interface{}) *http.Response {
	ts.T().Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	var buf bytes.Buffer

	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		ts.Require().NoError(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, ts.baseURL+path, &buf)
	ts.Require().NoError(err)

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.client.Do(req)
	ts.Require().NoError(err)

	return resp
}

func (ts *TaskifySuite) decode(resp *http.Response, v interface{}) {
	ts.T().Helper()

	defer resp.Body.Close()

	err := json.NewDecoder(resp.Body).Decode(v)
	ts.Require().NoError(err)
}

func (ts *TaskifySuite) register(username, password string) string {
	ts.T().Helper()

	resp := ts.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	ts.Require().Equal(http.StatusCreated, resp.StatusCode)

	var tr server.TokenResponse
	ts.decode(resp, &tr)
	ts.Require().NotEmpty(tr.Token)

	return tr.Token
}

func (ts *TaskifySuite) TestBoardLifecycle() {
	adminToken := ts.register(adminUsername, adminPassword)
	memberToken := ts.register(memberUsername, memberPassword)

	// Unauthenticated requests bounce off.
	resp := ts.do(http.MethodGet, "/board", "", nil)
	ts.Require().Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Admin creates a board and becomes its ADMIN.
	resp = ts.do(http.MethodPost, "/board", adminToken, map[string]string{"name": "release"})
	ts.Require().Equal(http.StatusCreated, resp.StatusCode)

	var board models.Board
	ts.decode(resp, &board)
	ts.Require().Equal("release", board.Name)

	resp = ts.do(http.MethodGet, "/board", adminToken, nil)
	ts.Require().Equal(http.StatusOK, resp.StatusCode)

	var boards []boardservice.BoardResponse
	ts.decode(resp, &boards)
	ts.Require().Len(boards, 1)
	ts.Require().True(boards[0].IsAdmin)

	// The other user cannot see it until added.
	resp = ts.do(http.MethodGet, "/board/"+board.ID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodPost, "/userboard", adminToken, map[string]interface{}{
		"username": memberUsername,
		"boardId":  board.ID,
	})
	ts.Require().Equal(http.StatusCreated, resp.StatusCode)

	var m models.Membership
	ts.decode(resp, &m)
	ts.Require().Equal(models.RoleUser, m.Role)

	resp = ts.do(http.MethodGet, "/board/"+board.ID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Adding twice is rejected.
	resp = ts.do(http.MethodPost, "/userboard", adminToken, map[string]interface{}{
		"username": memberUsername,
		"boardId":  board.ID,
	})
	ts.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodGet, "/userboard/"+board.ID.String(), adminToken, nil)
	ts.Require().Equal(http.StatusOK, resp.StatusCode)

	var members []models.User
	ts.decode(resp, &members)
	ts.Require().Len(members, 2)

	// A plain member cannot create columns.
	resp = ts.do(http.MethodPost, "/column", memberToken, map[string]interface{}{
		"name":    "To do",
		"boardId": board.ID,
	})
	ts.Require().Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	var todo, doing models.Column

	resp = ts.do(http.MethodPost, "/column", adminToken, map[string]interface{}{
		"name":    "To do",
		"boardId": board.ID,
	})
	ts.Require().Equal(http.StatusCreated, resp.StatusCode)
	ts.decode(resp, &todo)

	resp = ts.do(http.MethodPost, "/column", adminToken, map[string]interface{}{
		"name":    "Doing",
		"boardId": board.ID,
	})
	ts.Require().Equal(http.StatusCreated, resp.StatusCode)
	ts.decode(resp, &doing)
	ts.Require().Equal(1, doing.Order)

	// Members create tasks; each lands at the end of its column.
	taskNames := []string{"first task", "second task", "third task"}
	tasks := make([]models.Task, 0, len(taskNames))

	for i, name := range taskNames {
		resp = ts.do(http.MethodPost, "/task", memberToken, map[string]interface{}{
			"name":     name,
			"columnId": todo.ID,
			"boardId":  board.ID,
		})
		ts.Require().Equal(http.StatusCreated, resp.StatusCode)

		var task models.Task
		ts.decode(resp, &task)
		ts.Require().Equal(i, task.Order)
		tasks = append(tasks, task)
	}

	// Second task goes to the top of Doing.
	resp = ts.do(http.MethodPut, "/task/move", memberToken, map[string]interface{}{
		"taskId":      tasks[1].ID,
		"newColumnId": doing.ID,
		"boardId":     board.ID,
		"order":       0,
	})
	ts.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodGet, "/column?boardId="+board.ID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusOK, resp.StatusCode)

	var view []models.ColumnView
	ts.decode(resp, &view)
	ts.Require().Len(view, 2)
	ts.Require().Len(view[0].Tasks, 2)
	ts.Require().Len(view[1].Tasks, 1)
	ts.Require().Equal("first task", view[0].Tasks[0].Name)
	ts.Require().Equal("third task", view[0].Tasks[1].Name)
	ts.Require().Equal(1, view[0].Tasks[1].Order)
	ts.Require().Equal("second task", view[1].Tasks[0].Name)
	ts.Require().Equal(0, view[1].Tasks[0].Order)

	// Moving a task to where it already sits changes nothing.
	resp = ts.do(http.MethodPut, "/task/move", memberToken, map[string]interface{}{
		"taskId":      tasks[1].ID,
		"newColumnId": doing.ID,
		"boardId":     board.ID,
		"order":       0,
	})
	ts.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Tags are board scoped and admin managed.
	resp = ts.do(http.MethodPost, "/tag", memberToken, map[string]interface{}{
		"name":    "urgent",
		"color":   "#ff0000",
		"boardId": board.ID,
	})
	ts.Require().Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodPost, "/tag", adminToken, map[string]interface{}{
		"name":    "urgent",
		"color":   "#ff0000",
		"boardId": board.ID,
	})
	ts.Require().Equal(http.StatusCreated, resp.StatusCode)

	var tag models.Tag
	ts.decode(resp, &tag)

	resp = ts.do(http.MethodPut, "/task/"+tasks[0].ID.String(), memberToken, map[string]interface{}{
		"name":    "first task",
		"boardId": board.ID,
		"tags":    []uuid.UUID{tag.ID},
	})
	ts.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodGet, "/column?boardId="+board.ID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusOK, resp.StatusCode)
	ts.decode(resp, &view)
	ts.Require().Len(view[0].Tasks[0].Tags, 1)
	ts.Require().Equal("urgent", view[0].Tasks[0].Tags[0].Name)

	// Deleting a task closes the order gap behind it.
	resp = ts.do(http.MethodDelete, "/task/"+tasks[0].ID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodGet, "/column?boardId="+board.ID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusOK, resp.StatusCode)
	ts.decode(resp, &view)
	ts.Require().Len(view[0].Tasks, 1)
	ts.Require().Equal("third task", view[0].Tasks[0].Name)
	ts.Require().Equal(0, view[0].Tasks[0].Order)

	// A member cannot remove themself and cannot delete the board.
	resp = ts.do(http.MethodDelete, "/userboard/"+board.ID.String()+"/"+m.UserID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodDelete, "/board/"+board.ID.String(), memberToken, nil)
	ts.Require().Equal(http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The admin deletes the board with everything on it.
	resp = ts.do(http.MethodDelete, "/board/"+board.ID.String(), adminToken, nil)
	ts.Require().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(http.MethodGet, "/board/"+board.ID.String(), adminToken, nil)
	ts.Require().Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestTaskifySuite(t *testing.T) {
	suite.Run(t, new(TaskifySuite))
}
