package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
)

type leadServiceStub struct {
	leads  map[uuid.UUID]*entities.Lead
	events map[uuid.UUID][]*entities.LeadEvent

	lastQuery    entities.LeadQuery
	lastAssignee *uuid.UUID
	err          error
}

func newLeadServiceStub() *leadServiceStub {
	return &leadServiceStub{
		leads:  map[uuid.UUID]*entities.Lead{},
		events: map[uuid.UUID][]*entities.LeadEvent{},
	}
}

func (s *leadServiceStub) get(id uuid.UUID) (*entities.Lead, error) {
	if s.err != nil {
		return nil, s.err
	}
	lead, ok := s.leads[id]
	if !ok {
		return nil, domainerrors.NotFound("lead not found")
	}
	return lead, nil
}

func (s *leadServiceStub) CreateLead(_ context.Context, input *entities.CreateLeadInput) (*entities.Lead, error) {
	if s.err != nil {
		return nil, s.err
	}
	if input.Name == "" {
		return nil, domainerrors.ValidationFailed(domainerrors.FieldErrors{"name": "Name is required"})
	}
	lead := &entities.Lead{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Status:    entities.LeadStatusNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.leads[lead.ID] = lead
	return lead, nil
}

func (s *leadServiceStub) GetLead(_ context.Context, id uuid.UUID) (*entities.Lead, error) {
	return s.get(id)
}

func (s *leadServiceStub) ListLeads(_ context.Context, q entities.LeadQuery) (*entities.LeadPage, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	page := &entities.LeadPage{Items: []*entities.Lead{}, Page: 1}
	for _, l := range s.leads {
		page.Items = append(page.Items, l)
	}
	page.TotalCount = len(page.Items)
	page.TotalPages = 1
	return page, nil
}

func (s *leadServiceStub) UpdateLead(_ context.Context, id uuid.UUID, input *entities.UpdateLeadInput) (*entities.Lead, error) {
	lead, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		lead.Name = *input.Name
	}
	return lead, nil
}

func (s *leadServiceStub) UpdateStatus(_ context.Context, id uuid.UUID, status entities.LeadStatus) (*entities.Lead, error) {
	lead, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if lead.Status == status {
		return nil, domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeConflict, "lead is already "+string(status), domainerrors.ErrNoOpTransition)
	}
	lead.Status = status
	return lead, nil
}

func (s *leadServiceStub) AssignLead(_ context.Context, id uuid.UUID, assignee *uuid.UUID) (*entities.Lead, error) {
	s.lastAssignee = assignee
	lead, err := s.get(id)
	if err != nil {
		return nil, err
	}
	lead.AssignedTo = assignee
	return lead, nil
}

func (s *leadServiceStub) DeleteLead(_ context.Context, id uuid.UUID) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	delete(s.leads, id)
	return nil
}

func (s *leadServiceStub) GetTimeline(_ context.Context, id uuid.UUID) ([]*entities.LeadEvent, error) {
	if _, err := s.get(id); err != nil {
		return nil, err
	}
	return s.events[id], nil
}

func (s *leadServiceStub) RecordActivity(_ context.Context, id uuid.UUID, input *entities.RecordActivityInput) (*entities.LeadEvent, error) {
	if _, err := s.get(id); err != nil {
		return nil, err
	}
	ev := &entities.LeadEvent{ID: uuid.New(), LeadID: id, Type: input.Type, Timestamp: time.Now()}
	s.events[id] = append(s.events[id], ev)
	return ev, nil
}

func newLeadRouter(svc LeadService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLeadHandler(svc)
	r := gin.New()
	r.GET("/leads", h.ListLeads)
	r.POST("/leads", h.CreateLead)
	r.GET("/leads/:id", h.GetLead)
	r.PATCH("/leads/:id", h.UpdateLead)
	r.PATCH("/leads/:id/status", h.UpdateStatus)
	r.PATCH("/leads/:id/assignee", h.AssignLead)
	r.DELETE("/leads/:id", h.DeleteLead)
	r.GET("/leads/:id/timeline", h.GetTimeline)
	r.POST("/leads/:id/activities", h.RecordActivity)
	return r
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLeadHandler_FullFlow(t *testing.T) {
	svc := newLeadServiceStub()
	r := newLeadRouter(svc)

	rec := doJSON(r, http.MethodPost, "/leads", map[string]any{"name": "Ada Lovelace", "email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Lead entities.Lead `json:"lead"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Ada Lovelace", created.Lead.Name)
	id := created.Lead.ID.String()

	rec = doJSON(r, http.MethodGet, "/leads/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(r, http.MethodPatch, "/leads/"+id, map[string]any{"name": "Ada King"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada King")

	rec = doJSON(r, http.MethodPatch, "/leads/"+id+"/status", map[string]any{"status": "Contacted"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Contacted"`)

	rec = doJSON(r, http.MethodPatch, "/leads/"+id+"/status", map[string]any{"status": "Contacted"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(r, http.MethodPost, "/leads/"+id+"/activities", map[string]any{"type": "call", "notes": "left voicemail"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(r, http.MethodGet, "/leads/"+id+"/timeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var timeline struct {
		Events []entities.LeadEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timeline))
	require.Len(t, timeline.Events, 1)
	assert.Equal(t, entities.LeadEventCall, timeline.Events[0].Type)

	rec = doJSON(r, http.MethodDelete, "/leads/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(r, http.MethodDelete, "/leads/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadHandler_CreateValidationFields(t *testing.T) {
	r := newLeadRouter(newLeadServiceStub())

	rec := doJSON(r, http.MethodPost, "/leads", map[string]any{"email": "x@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fields":{"name":"Name is required"}`)

	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadHandler_ListParsesQuery(t *testing.T) {
	svc := newLeadServiceStub()
	r := newLeadRouter(svc)

	rec := doJSON(r, http.MethodGet, "/leads?status=Qualified&search=+acme+&assignedTo=unassigned&source=Referral&page=2&pageSize=5&sortField=name&sortDirection=ASC", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	q := svc.lastQuery
	assert.Equal(t, entities.LeadStatusQualified, q.Status)
	assert.Equal(t, "acme", q.Search)
	assert.True(t, q.Unassigned)
	assert.Nil(t, q.AssignedTo)
	assert.Equal(t, entities.LeadSourceReferral, q.LeadSource)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 5, q.PageSize)
	assert.Equal(t, "name", q.SortField)
	assert.Equal(t, entities.SortAsc, q.SortDirection)

	member := uuid.New()
	rec = doJSON(r, http.MethodGet, "/leads?status=all&assignedTo="+member.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.lastQuery.Status)
	require.NotNil(t, svc.lastQuery.AssignedTo)
	assert.Equal(t, member, *svc.lastQuery.AssignedTo)
	assert.Equal(t, 1, svc.lastQuery.Page)
}

func TestLeadHandler_ListRejectsBadFilters(t *testing.T) {
	r := newLeadRouter(newLeadServiceStub())

	rec := doJSON(r, http.MethodGet, "/leads?status=Pending&assignedTo=nobody&source=Radio&sortDirection=up", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domainerrors.CodeValidationFailed, body.Code)
	assert.Len(t, body.Fields, 4)
}

func TestLeadHandler_ListSortField(t *testing.T) {
	svc := newLeadServiceStub()
	r := newLeadRouter(svc)

	rec := doJSON(r, http.MethodGet, "/leads?sortField=assignedTo&sortDirection=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entities.SortFieldAssignedTo, svc.lastQuery.SortField)

	rec = doJSON(r, http.MethodGet, "/leads?sortField=favouriteColour", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"sortField": "Unknown sort field"}, body.Fields)
}

func TestLeadHandler_AssignLead(t *testing.T) {
	svc := newLeadServiceStub()
	lead := &entities.Lead{ID: uuid.New(), Name: "Grace", Status: entities.LeadStatusNew}
	svc.leads[lead.ID] = lead
	r := newLeadRouter(svc)

	member := uuid.New()
	rec := doJSON(r, http.MethodPatch, "/leads/"+lead.ID.String()+"/assignee", map[string]any{"assignedTo": member.String()})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastAssignee)
	assert.Equal(t, member, *svc.lastAssignee)

	rec = doJSON(r, http.MethodPatch, "/leads/"+lead.ID.String()+"/assignee", map[string]any{"assignedTo": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastAssignee)

	rec = doJSON(r, http.MethodPatch, "/leads/"+lead.ID.String()+"/assignee", map[string]any{"assignedTo": "not-a-uuid"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "assignedTo")
}

func TestLeadHandler_InvalidIDAndStoreErrors(t *testing.T) {
	svc := newLeadServiceStub()
	r := newLeadRouter(svc)

	for _, path := range []string{"/leads/bad", "/leads/bad/timeline"} {
		rec := doJSON(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	svc.err = domainerrors.PersistenceFailed(context.DeadlineExceeded)
	rec := doJSON(r, http.MethodGet, "/leads", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), domainerrors.CodePersistenceFailed)

	rec = doJSON(r, http.MethodGet, "/leads/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
