package handlers

import (
	"net/http"

	"github.com/Dosada05/worldcup/services"
)

type WorldcupHandler struct {
	worldcupService services.WorldcupService
}

func NewWorldcupHandler(ws services.WorldcupService) *WorldcupHandler {
	return &WorldcupHandler{worldcupService: ws}
}

// GetWorldcup godoc
// @Summary Получить worldcup со списком кандидатов
// @Tags worldcups
// @Produce json
// @Param worldcupID path string true "Worldcup ID"
// @Success 200 {object} map[string]interface{} "worldcup с упорядоченными items"
// @Failure 404 {object} map[string]string "Worldcup не найден"
// @Router /worldcups/{worldcupID} [get]
func (h *WorldcupHandler) GetWorldcup(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	wc, err := h.worldcupService.GetWorldcup(r.Context(), worldcupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"worldcup": wc}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateSession godoc
// @Summary Выдать гостевой токен сессии игры
// @Tags worldcups
// @Produce json
// @Param worldcupID path string true "Worldcup ID"
// @Success 201 {object} map[string]interface{} "Сессия создана"
// @Failure 404 {object} map[string]string "Worldcup не найден"
// @Router /worldcups/{worldcupID}/sessions [post]
func (h *WorldcupHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	worldcupID, err := getIDFromURL(r, "worldcupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, err := h.worldcupService.CreateSession(r.Context(), worldcupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": sess}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
