package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/saludtech/profiling-api/internal/api/metrics"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

// RecomputeQueue abstracts the worker pool that re-scores patient records in
// the background.
type RecomputeQueue interface {
	EnqueueBatch(patientIDs []string)
}

// PatientHandler handles HTTP requests for patient record operations.
type PatientHandler struct {
	service   ports.PatientService
	recompute RecomputeQueue
}

func NewPatientHandler(service ports.PatientService, recompute RecomputeQueue) *PatientHandler {
	return &PatientHandler{service: service, recompute: recompute}
}

// Create handles POST /patients.
//
// @Summary      Create a new patient record
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient attributes"
// @Success      201  {object}  patientResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient, err := h.service.Create(c.Request().Context(), toCreateInput(&req), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPatientResponse(patient))
}

// List handles GET /patients. Operators see their own records; admins see all.
//
// @Summary      List patient records
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "Records to skip"
// @Param        limit  query  int  false  "Max records to return (default 100)"
// @Success      200  {array}   patientResponse
// @Failure      401  {object}  errorResponse
// @Router       /patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	skip, limit := pagination(c)

	patients, err := h.service.List(c.Request().Context(), caller, skip, limit)
	if err != nil {
		return err
	}

	resp := make([]patientResponse, 0, len(patients))
	for i := range patients {
		resp = append(resp, toPatientResponse(&patients[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /patients/:id.
//
// @Summary      Get a patient record
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient id"
// @Success      200  {object}  patientResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	patient, err := h.service.Get(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPatientResponse(patient))
}

// Update handles PUT /patients/:id with partial-update semantics: fields
// absent from the payload keep their stored values.
//
// @Summary      Update a patient record
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "Patient id"
// @Param        body  body  updatePatientRequest  true  "Fields to change"
// @Success      200  {object}  patientResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient, err := h.service.Update(c.Request().Context(), c.Param("id"), toPatch(&req), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPatientResponse(patient))
}

// Delete handles DELETE /patients/:id.
//
// @Summary      Delete a patient record
// @Tags         patients
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient id"
// @Success      204  "No Content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), caller); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Predict handles POST /patients/:id/predict: invokes the classification
// model, persists the result onto the record, and returns it.
//
// @Summary      Compute the disability profile for a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient id"
// @Success      200  {object}  predictionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /patients/{id}/predict [post]
func (h *PatientHandler) Predict(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	result, err := h.service.Predict(c.Request().Context(), c.Param("id"), caller)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, predictionResponse{
		Profile:     result.Profile,
		Description: result.Description,
	})
}

// RecomputeAll handles POST /admin/patients/recompute: enqueues every record
// that already has a computed profile for re-scoring against the current model.
//
// @Summary      Recompute all stored profiles
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  recomputeResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/patients/recompute [post]
func (h *PatientHandler) RecomputeAll(c echo.Context) error {
	ids, err := h.service.ListPredictedIDs(c.Request().Context())
	if err != nil {
		return err
	}

	h.recompute.EnqueueBatch(ids)
	metrics.RecomputeEnqueuedTotal.Add(float64(len(ids)))

	return c.JSON(http.StatusAccepted, recomputeResponse{Enqueued: len(ids)})
}
