package handler

import (
	"net/http"

	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/usecase"
	"doctor-booking/pkg/response"
	"doctor-booking/pkg/validator"
)

type AppointmentHandler struct {
	bookingUsecase     usecase.PatientBookingUsecase
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(
	bookingUsecase usecase.PatientBookingUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase:     bookingUsecase,
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.BookAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.Book(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, booking.Message, booking)
}

func (h *AppointmentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Pay(r.Context(), appointmentID, userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment paid successfully", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), appointmentID, userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment canceled and refunded", appointment)
}

func (h *AppointmentHandler) MyAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListForUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully",
		appointments.Appointments, &response.Meta{Total: appointments.Total})
}

func (h *AppointmentHandler) DoctorAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully",
		appointments.Appointments, &response.Meta{Total: appointments.Total})
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.Complete(r.Context(), appointmentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "id", "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// ListByStatus serves the admin report, e.g. ?status=reserved.
func (h *AppointmentHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		response.BadRequest(w, "status query parameter is required")
		return
	}

	appointments, err := h.appointmentUsecase.ListByStatus(r.Context(), status)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully",
		appointments.Appointments, &response.Meta{Total: appointments.Total})
}
