package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/services"
)

type VoteHandler struct {
	voteService services.VoteService
	logger      *slog.Logger
}

func NewVoteHandler(vs services.VoteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{voteService: vs, logger: logger}
}

// SubmitBulk godoc
// @Summary Пакетная отправка голосов
// @Tags votes
// @Accept json
// @Produce json
// @Param worldcupID path string true "Worldcup ID"
// @Param input body models.BulkVoteRequest true "Голоса"
// @Success 200 {object} models.BulkVoteResult
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Worldcup не найден"
// @Router /worldcups/{worldcupID}/votes/bulk [post]
func (h *VoteHandler) SubmitBulk(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.BulkVoteRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.voteService.SubmitBulk(r.Context(), worldcupID, input.Votes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, res, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitVote godoc
// @Summary Отправка одного голоса
// @Tags votes
// @Accept json
// @Produce json
// @Param worldcupID path string true "Worldcup ID"
// @Param input body models.VoteRecord true "Голос"
// @Success 201 {object} map[string]string "Голос принят"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 422 {object} map[string]string "Неизвестный item"
// @Router /worldcups/{worldcupID}/votes [post]
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.VoteRecord
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.voteService.SubmitVote(r.Context(), worldcupID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"message": "vote accepted"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitBeacon godoc
// @Summary Приём голосов, отправленных без ожидания ответа
// @Description Тело всегда JSON, Content-Type не проверяется.
// @Tags votes
// @Accept plain
// @Param worldcupID path string true "Worldcup ID"
// @Param input body models.BeaconPayload true "Голоса"
// @Success 202 "Принято"
// @Failure 400 {object} map[string]string "Некорректное тело"
// @Router /worldcups/{worldcupID}/votes/beacon [post]
func (h *VoteHandler) SubmitBeacon(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var payload models.BeaconPayload
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("body must not be empty")
		}
		badRequestResponse(w, r, err)
		return
	}
	if payload.WorldcupID != "" && payload.WorldcupID != worldcupID {
		badRequestResponse(w, r, fmt.Errorf("payload worldcupId %q does not match URL", payload.WorldcupID))
		return
	}

	res, err := h.voteService.SubmitBulk(r.Context(), worldcupID, payload.Votes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.logger.Info("beacon votes received",
		slog.String("worldcup_id", worldcupID),
		slog.Int("successful", res.SuccessfulVotes),
		slog.Int("failed", res.FailedVotes),
		slog.Int64("sent_at", payload.Timestamp))

	w.WriteHeader(http.StatusAccepted)
}
