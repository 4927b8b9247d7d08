package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

type stubPatientService struct {
	patient *domain.Patient
	list    []domain.Patient
	result  *domain.ProfileResult
	ids     []string
	err     error

	gotInput  ports.CreatePatientInput
	gotPatch  ports.PatientPatch
	gotCaller ports.Caller
	gotID     string
}

func (s *stubPatientService) Create(_ context.Context, in ports.CreatePatientInput, caller ports.Caller) (*domain.Patient, error) {
	s.gotInput = in
	s.gotCaller = caller
	return s.patient, s.err
}

func (s *stubPatientService) List(_ context.Context, caller ports.Caller, skip, limit int) ([]domain.Patient, error) {
	s.gotCaller = caller
	return s.list, s.err
}

func (s *stubPatientService) Get(_ context.Context, id string, caller ports.Caller) (*domain.Patient, error) {
	s.gotID = id
	s.gotCaller = caller
	return s.patient, s.err
}

func (s *stubPatientService) Update(_ context.Context, id string, patch ports.PatientPatch, caller ports.Caller) (*domain.Patient, error) {
	s.gotID = id
	s.gotPatch = patch
	s.gotCaller = caller
	return s.patient, s.err
}

func (s *stubPatientService) Delete(_ context.Context, id string, caller ports.Caller) error {
	s.gotID = id
	s.gotCaller = caller
	return s.err
}

func (s *stubPatientService) Predict(_ context.Context, id string, caller ports.Caller) (*domain.ProfileResult, error) {
	s.gotID = id
	s.gotCaller = caller
	return s.result, s.err
}

func (s *stubPatientService) RecomputeProfile(_ context.Context, id string) error {
	s.gotID = id
	return s.err
}

func (s *stubPatientService) ListPredictedIDs(_ context.Context) ([]string, error) {
	return s.ids, s.err
}

type stubRecomputeQueue struct {
	enqueued []string
}

func (q *stubRecomputeQueue) EnqueueBatch(ids []string) {
	q.enqueued = append(q.enqueued, ids...)
}

func patientContext(method, target, body string, caller *ports.Caller) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set("user_id", caller.ID)
		c.Set("email", caller.Email)
		c.Set("role", caller.Role)
	}
	return c, rec
}

var operatorCaller = ports.Caller{ID: "op-1", Email: "op@example.com", Role: domain.RoleOperator}

const validPatientBody = `{
	"full_name": "Jane Doe",
	"birth_date": "1983-04-12",
	"age": 42,
	"gender": "female",
	"sexual_orientation": "heterosexual",
	"deficiency_cause": "traffic_accident",
	"physical_category": "yes",
	"psychosocial_category": "no",
	"level_d1": 25,
	"level_d2": 50,
	"level_d3": 75,
	"level_d4": 100,
	"level_d5": 50,
	"level_d6": 25,
	"level_global": 55
}`

func TestPatientHandler_Create_Success(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{
		ID:       "p-1",
		FullName: "Jane Doe",
		OwnerID:  operatorCaller.ID,
	}}
	h := NewPatientHandler(svc, &stubRecomputeQueue{})

	c, rec := patientContext(http.MethodPost, "/patients", validPatientBody, &operatorCaller)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.gotCaller.ID != operatorCaller.ID {
		t.Fatalf("caller not forwarded: %+v", svc.gotCaller)
	}
	if svc.gotInput.FullName != "Jane Doe" || svc.gotInput.LevelGlobal != 55 {
		t.Fatalf("input not mapped: %+v", svc.gotInput)
	}
	if svc.gotInput.BirthDate != time.Date(1983, 4, 12, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("birth date not parsed: %v", svc.gotInput.BirthDate)
	}
}

func TestPatientHandler_Create_ValidationErrors(t *testing.T) {
	h := NewPatientHandler(&stubPatientService{}, &stubRecomputeQueue{})

	bodies := map[string]string{
		"bad gender":       strings.Replace(validPatientBody, `"female"`, `"other"`, 1),
		"level above 100":  strings.Replace(validPatientBody, `"level_global": 55`, `"level_global": 101`, 1),
		"level below 0":    strings.Replace(validPatientBody, `"level_d1": 25`, `"level_d1": -1`, 1),
		"bad birth date":   strings.Replace(validPatientBody, `"1983-04-12"`, `"12/04/1983"`, 1),
		"missing name":     strings.Replace(validPatientBody, `"full_name": "Jane Doe",`, ``, 1),
		"bad cause":        strings.Replace(validPatientBody, `"traffic_accident"`, `"unknown"`, 1),
		"bad physical":     strings.Replace(validPatientBody, `"physical_category": "yes"`, `"physical_category": "maybe"`, 1),
	}

	for name, body := range bodies {
		c, _ := patientContext(http.MethodPost, "/patients", body, &operatorCaller)
		err := h.Create(c)
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", name, err)
		}
	}
}

func TestPatientHandler_Create_MissingCaller(t *testing.T) {
	h := NewPatientHandler(&stubPatientService{}, &stubRecomputeQueue{})

	c, _ := patientContext(http.MethodPost, "/patients", validPatientBody, nil)
	err := h.Create(c)

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %v", err)
	}
}

func TestPatientHandler_Get_ForwardsDomainError(t *testing.T) {
	svc := &stubPatientService{err: domain.ErrForbidden}
	h := NewPatientHandler(svc, &stubRecomputeQueue{})

	c, _ := patientContext(http.MethodGet, "/patients/p-9", "", &operatorCaller)
	c.SetParamNames("id")
	c.SetParamValues("p-9")

	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if svc.gotID != "p-9" {
		t.Fatalf("id not forwarded: %q", svc.gotID)
	}
}

func TestPatientHandler_Update_PartialPatch(t *testing.T) {
	svc := &stubPatientService{patient: &domain.Patient{ID: "p-1", Age: 43}}
	h := NewPatientHandler(svc, &stubRecomputeQueue{})

	c, rec := patientContext(http.MethodPut, "/patients/p-1", `{"age": 43}`, &operatorCaller)
	c.SetParamNames("id")
	c.SetParamValues("p-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotPatch.Age == nil || *svc.gotPatch.Age != 43 {
		t.Fatalf("age not patched: %+v", svc.gotPatch)
	}
	if svc.gotPatch.FullName != nil || svc.gotPatch.LevelGlobal != nil {
		t.Fatalf("absent fields must stay nil in the patch")
	}
}

func TestPatientHandler_Delete_Success(t *testing.T) {
	svc := &stubPatientService{}
	h := NewPatientHandler(svc, &stubRecomputeQueue{})

	c, rec := patientContext(http.MethodDelete, "/patients/p-1", "", &operatorCaller)
	c.SetParamNames("id")
	c.SetParamValues("p-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestPatientHandler_Predict_Success(t *testing.T) {
	svc := &stubPatientService{result: &domain.ProfileResult{Profile: 1, Description: "moderate support"}}
	h := NewPatientHandler(svc, &stubRecomputeQueue{})

	c, rec := patientContext(http.MethodPost, "/patients/p-1/predict", "", &operatorCaller)
	c.SetParamNames("id")
	c.SetParamValues("p-1")

	if err := h.Predict(c); err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp predictionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Profile != 1 || resp.Description != "moderate support" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPatientHandler_Predict_Unavailable(t *testing.T) {
	svc := &stubPatientService{err: domain.ErrPredictionUnavailable}
	h := NewPatientHandler(svc, &stubRecomputeQueue{})

	c, _ := patientContext(http.MethodPost, "/patients/p-1/predict", "", &operatorCaller)
	c.SetParamNames("id")
	c.SetParamValues("p-1")

	if err := h.Predict(c); !errors.Is(err, domain.ErrPredictionUnavailable) {
		t.Fatalf("expected ErrPredictionUnavailable, got %v", err)
	}
}

func TestPatientHandler_RecomputeAll(t *testing.T) {
	svc := &stubPatientService{ids: []string{"p-1", "p-2", "p-3"}}
	queue := &stubRecomputeQueue{}
	h := NewPatientHandler(svc, queue)

	c, rec := patientContext(http.MethodPost, "/admin/patients/recompute", "", &operatorCaller)
	if err := h.RecomputeAll(c); err != nil {
		t.Fatalf("RecomputeAll returned error: %v", err)
	}

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(queue.enqueued) != 3 {
		t.Fatalf("expected 3 enqueued ids, got %d", len(queue.enqueued))
	}

	var resp recomputeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Enqueued != 3 {
		t.Fatalf("expected enqueued 3, got %d", resp.Enqueued)
	}
}
