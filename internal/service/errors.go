package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/giftdeed/internal/codec"
	"github.com/mmynk/giftdeed/internal/datefmt"
	"github.com/mmynk/giftdeed/internal/form"
	"github.com/mmynk/giftdeed/internal/storage"
)

// errBadRequest marks request bodies or parameters that cannot be used.
var errBadRequest = errors.New("bad request")

// errorResponse is the body of every failed API call.
// Notice is a message meant to be shown to the user as is.
type errorResponse struct {
	Error  string `json:"error"`
	Notice string `json:"notice"`
}

// classify maps an error to its HTTP status and user-facing notice.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, codec.ErrParse):
		return http.StatusBadRequest, "ファイルの読み込みに失敗しました。"
	case errors.Is(err, datefmt.ErrFormat):
		return http.StatusUnprocessableEntity, "日付の形式が正しくありません。"
	case errors.Is(err, form.ErrLastGift):
		return http.StatusConflict, "贈与物件は少なくとも1件必要です。"
	case errors.Is(err, form.ErrGiftIndex), errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrInvalidText),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "入力内容が正しくありません。"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "契約書が見つかりません。"
	default:
		return http.StatusInternalServerError, "エラーが発生しました。"
	}
}

// rejectReason is the metrics label for a rejected edit.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, codec.ErrParse):
		return "parse"
	case errors.Is(err, datefmt.ErrFormat):
		return "date_format"
	case errors.Is(err, form.ErrLastGift):
		return "last_gift"
	case errors.Is(err, form.ErrGiftIndex):
		return "gift_index"
	case errors.Is(err, form.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, form.ErrInvalidText):
		return "invalid_text"
	default:
		return "other"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, notice := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Notice: notice})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
