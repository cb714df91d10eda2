package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ncb6206/SIKBOO/internal/dto"
)

func (s *Suite) authedRequest(method, path, accessToken string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, s.BaseURL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

// waitForTitle polls the session list until the session leaves the
// placeholder state.
func (s *Suite) waitForTitle(accessToken string, sessionID int64) dto.SessionSummary {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp := s.authedRequest(http.MethodGet, "/api/recipes/sessions", accessToken, nil)
		var sessions []dto.SessionSummary
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&sessions))
		resp.Body.Close()

		for _, sess := range sessions {
			if sess.ID == sessionID && !sess.Generating && sess.Title != "레시피 생성중…" {
				return sess
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	s.T().Fatalf("session %d never reached a terminal title", sessionID)
	return dto.SessionSummary{}
}

func (s *Suite) TestGenerate_FullFlow() {
	memberID := s.createMember("cook")
	accessToken, _ := s.openSession(memberID)
	kimchi := s.createIngredient(memberID, "김치")
	tofu := s.createIngredient(memberID, "두부")

	resp := s.authedRequest(http.MethodPost, "/api/recipes/generate", accessToken,
		dto.GenerateRequest{IngredientIDs: []int64{kimchi, tofu}})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var generated dto.GenerateResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&generated))
	s.NotZero(generated.ID)
	s.Equal("레시피 생성중…", generated.Title)

	terminal := s.waitForTitle(accessToken, generated.ID)
	s.Equal("김치찌개 · 부대찌개", terminal.Title)

	detailResp := s.authedRequest(http.MethodGet, fmt.Sprintf("/api/recipes/sessions/%d", generated.ID), accessToken, nil)
	defer detailResp.Body.Close()
	s.Equal(http.StatusOK, detailResp.StatusCode)

	var detail dto.SessionDetail
	s.Require().NoError(json.NewDecoder(detailResp.Body).Decode(&detail))
	s.False(detail.Generating)

	var result struct {
		Have []struct {
			Title string `json:"title"`
		} `json:"have"`
	}
	s.Require().NoError(json.Unmarshal(detail.Result, &result))
	s.Require().Len(result.Have, 1)
	s.Equal("김치찌개", result.Have[0].Title)
}

func (s *Suite) TestSessionDetail_ForeignSessionForbidden() {
	ownerID := s.createMember("owner")
	ownerToken, _ := s.openSession(ownerID)
	kimchi := s.createIngredient(ownerID, "김치")

	resp := s.authedRequest(http.MethodPost, "/api/recipes/generate", ownerToken,
		dto.GenerateRequest{IngredientIDs: []int64{kimchi}})
	var generated dto.GenerateResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&generated))
	resp.Body.Close()
	s.waitForTitle(ownerToken, generated.ID)

	intruderID := s.createMember("intruder")
	intruderToken, _ := s.openSession(intruderID)

	foreign := s.authedRequest(http.MethodGet, fmt.Sprintf("/api/recipes/sessions/%d", generated.ID), intruderToken, nil)
	defer foreign.Body.Close()
	s.Equal(http.StatusForbidden, foreign.StatusCode)
}

func (s *Suite) TestReorderSessions() {
	memberID := s.createMember("organizer")
	accessToken, _ := s.openSession(memberID)
	kimchi := s.createIngredient(memberID, "김치")

	var ids []int64
	for i := 0; i < 3; i++ {
		resp := s.authedRequest(http.MethodPost, "/api/recipes/generate", accessToken,
			dto.GenerateRequest{IngredientIDs: []int64{kimchi}})
		var generated dto.GenerateResponse
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&generated))
		resp.Body.Close()
		ids = append(ids, generated.ID)
	}
	for _, id := range ids {
		s.waitForTitle(accessToken, id)
	}

	reorder := s.authedRequest(http.MethodPatch, "/api/recipes/sessions/reorder", accessToken,
		dto.ReorderRequest{OrderedIDs: []int64{ids[2], ids[0]}})
	reorder.Body.Close()
	s.Equal(http.StatusNoContent, reorder.StatusCode)

	listResp := s.authedRequest(http.MethodGet, "/api/recipes/sessions", accessToken, nil)
	defer listResp.Body.Close()

	var sessions []dto.SessionSummary
	s.Require().NoError(json.NewDecoder(listResp.Body).Decode(&sessions))
	s.Require().Len(sessions, 3)
	s.Equal(ids[2], sessions[0].ID)
	s.Equal(ids[0], sessions[1].ID)
	s.Equal(ids[1], sessions[2].ID)
}

func (s *Suite) TestRenameAndDeleteSession() {
	memberID := s.createMember("editor")
	accessToken, _ := s.openSession(memberID)
	kimchi := s.createIngredient(memberID, "김치")

	resp := s.authedRequest(http.MethodPost, "/api/recipes/generate", accessToken,
		dto.GenerateRequest{IngredientIDs: []int64{kimchi}})
	var generated dto.GenerateResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&generated))
	resp.Body.Close()
	s.waitForTitle(accessToken, generated.ID)

	rename := s.authedRequest(http.MethodPatch, fmt.Sprintf("/api/recipes/sessions/%d", generated.ID), accessToken,
		dto.RenameSessionRequest{Title: "주말 메뉴"})
	rename.Body.Close()
	s.Equal(http.StatusNoContent, rename.StatusCode)

	del := s.authedRequest(http.MethodDelete, fmt.Sprintf("/api/recipes/sessions/%d", generated.ID), accessToken, nil)
	del.Body.Close()
	s.Equal(http.StatusNoContent, del.StatusCode)

	detail := s.authedRequest(http.MethodGet, fmt.Sprintf("/api/recipes/sessions/%d", generated.ID), accessToken, nil)
	defer detail.Body.Close()
	s.Equal(http.StatusNotFound, detail.StatusCode)
}

func (s *Suite) TestIngredients_CRUDAndExpiryEstimation() {
	memberID := s.createMember("stocker")
	accessToken, _ := s.openSession(memberID)

	create := s.authedRequest(http.MethodPost, "/api/ingredients", accessToken, dto.CreateIngredientRequest{
		Name:     "두부",
		Category: "채소",
		Location: "FRIDGE",
	})
	defer create.Body.Close()
	s.Equal(http.StatusCreated, create.StatusCode)

	var created dto.IngredientResponse
	s.Require().NoError(json.NewDecoder(create.Body).Decode(&created))
	s.NotZero(created.ID)
	s.Require().NotNil(created.ExpiresAt, "missing expiry must be estimated")

	list := s.authedRequest(http.MethodGet, "/api/ingredients", accessToken, nil)
	defer list.Body.Close()
	var items []dto.IngredientResponse
	s.Require().NoError(json.NewDecoder(list.Body).Decode(&items))
	s.Len(items, 1)

	del := s.authedRequest(http.MethodDelete, fmt.Sprintf("/api/ingredients/%d", created.ID), accessToken, nil)
	del.Body.Close()
	s.Equal(http.StatusNoContent, del.StatusCode)
}

func (s *Suite) TestIngredients_SlimListAndPaging() {
	memberID := s.createMember("picker")
	accessToken, _ := s.openSession(memberID)

	s.createIngredient(memberID, "김치")
	s.createIngredient(memberID, "두부")
	s.createIngredient(memberID, "대파")

	slim := s.authedRequest(http.MethodGet, "/api/ingredients/my", accessToken, nil)
	defer slim.Body.Close()
	s.Equal(http.StatusOK, slim.StatusCode)

	var names []dto.IngredientNameResponse
	s.Require().NoError(json.NewDecoder(slim.Body).Decode(&names))
	s.Require().Len(names, 3)
	for _, n := range names {
		s.NotZero(n.ID)
		s.NotEmpty(n.Name)
	}

	page := s.authedRequest(http.MethodGet, "/api/ingredients?page=2&size=2", accessToken, nil)
	defer page.Body.Close()
	s.Equal(http.StatusOK, page.StatusCode)

	var items []dto.IngredientResponse
	s.Require().NoError(json.NewDecoder(page.Body).Decode(&items))
	s.Len(items, 1)

	bad := s.authedRequest(http.MethodGet, "/api/ingredients?page=abc", accessToken, nil)
	bad.Body.Close()
	s.Equal(http.StatusBadRequest, bad.StatusCode)
}

func (s *Suite) TestLastSelection_RoundTrip() {
	memberID := s.createMember("selector")
	accessToken, _ := s.openSession(memberID)
	kimchi := s.createIngredient(memberID, "김치")
	tofu := s.createIngredient(memberID, "두부")

	gen := s.authedRequest(http.MethodPost, "/api/recipes/generate", accessToken,
		dto.GenerateRequest{IngredientIDs: []int64{kimchi, tofu}})
	var generated dto.GenerateResponse
	s.Require().NoError(json.NewDecoder(gen.Body).Decode(&generated))
	gen.Body.Close()
	s.waitForTitle(accessToken, generated.ID)

	resp := s.authedRequest(http.MethodGet, "/api/recipes/selection", accessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var selection struct {
		IngredientIDs []int64 `json:"ingredientIds"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&selection))
	s.Equal([]int64{kimchi, tofu}, selection.IngredientIDs)
}
