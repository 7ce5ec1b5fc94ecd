// Пакет errors — запись HTTP-ошибок в формате формы заказов.
// Единый формат: {"error": "<сообщение>"} — сообщение показывается
// пользователю формы как есть, поэтому текст всегда одно предложение.
package errors //nolint:revive // имя пакета совпадает со stdlib, импортируется только в handlers

import (
	"encoding/json"
	"net/http"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError записывает ответ ошибки.
// statusCode — HTTP статус-код, message — описание для пользователя формы.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// InternalError — 500 ошибка сохранения или загрузки.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
