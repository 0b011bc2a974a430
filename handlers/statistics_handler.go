package handlers

import (
	"net/http"

	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/services"
)

type StatisticsHandler struct {
	statisticsService services.StatisticsService
}

func NewStatisticsHandler(ss services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: ss}
}

// GetStatistics godoc
// @Summary Статистика побед и чемпионств по items
// @Tags statistics
// @Produce json
// @Param worldcupID path string true "Worldcup ID"
// @Success 200 {object} map[string]interface{} "statistics"
// @Failure 404 {object} map[string]string "Worldcup не найден"
// @Router /worldcups/{worldcupID}/statistics [get]
func (h *StatisticsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.statisticsService.GetStatistics(r.Context(), worldcupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"statistics": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordResult godoc
// @Summary Итог завершённого турнира
// @Tags statistics
// @Accept json
// @Produce json
// @Param worldcupID path string true "Worldcup ID"
// @Param input body models.StatisticsUpdate true "Матчи, победитель и токен сессии"
// @Success 200 {object} map[string]string "Учтено"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 401 {object} map[string]string "Недействительный токен сессии"
// @Failure 409 {object} map[string]string "Сессия уже учтена"
// @Failure 422 {object} map[string]string "Победитель не найден в матчах"
// @Router /worldcups/{worldcupID}/statistics [post]
func (h *StatisticsHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.StatisticsUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.statisticsService.RecordResult(r.Context(), worldcupID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "statistics recorded"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
