package handler

import (
	"net/http"

	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/usecase"
	"doctor-booking/pkg/response"
	"doctor-booking/pkg/validator"

	"github.com/gorilla/mux"
)

type DoctorScheduleHandler struct {
	scheduleUsecase usecase.DoctorScheduleUsecase
	validator       *validator.CustomValidator
}

func NewDoctorScheduleHandler(scheduleUsecase usecase.DoctorScheduleUsecase, validator *validator.CustomValidator) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *DoctorScheduleHandler) AddSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	var req dto.AddSlotRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.DoctorID = doctorID
	req.Weekday = mux.Vars(r)["weekday"]

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.scheduleUsecase.AddSlot(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Slot added successfully", slot)
}

func (h *DoctorScheduleHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	var req dto.UpdateSlotRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	req.DoctorID = doctorID
	req.Weekday = vars["weekday"]
	req.OldTime = vars["time"]

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slot, err := h.scheduleUsecase.UpdateSlot(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Slot updated successfully", slot)
}

func (h *DoctorScheduleHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	vars := mux.Vars(r)
	req := dto.DeleteSlotRequest{
		DoctorID:  doctorID,
		Weekday:   vars["weekday"],
		VisitTime: vars["time"],
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.scheduleUsecase.DeleteSlot(r.Context(), &req); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Slot deleted successfully", nil)
}

func (h *DoctorScheduleHandler) Render(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.Render(r.Context(), doctorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}
