package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hiring-portal/internal/application"
)

var (
	errBadRequestBody       = errors.New("無効なリクエスト形式です。")
	errInvalidJobID         = errors.New("無効な求人 ID です。")
	errInvalidApplicationID = errors.New("無効な応募 ID です。")
	errInvalidInterviewID   = errors.New("無効な面接 ID です。")
	errInvalidDuration      = errors.New("面接時間は整数 (分) で指定してください。")
	errInvalidDays          = errors.New("日数は整数で指定してください。")
	errInvalidStart         = errors.New("開始日時は RFC 3339 形式で指定してください。")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			ErrorCode: "NOT_FOUND",
			Message:   "指定されたリソースが見つかりません。",
		})
	case errors.Is(err, application.ErrConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "INTERVIEW_CONFLICT",
			Message:   "面接官の予定が既存の面接と重複しています。",
		})
	case errors.Is(err, application.ErrInvalidTransition):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "INVALID_TRANSITION",
			Message:   "現在の面接ステータスではこの操作を実行できません。",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				ErrorCode: "VALIDATION_FAILED",
				Message:   "入力内容に誤りがあります。",
				Errors:    localizeValidationErrors(vErr),
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err, "error_kind", application.ErrorKind(err))
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "サーバー内部でエラーが発生しました。"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusNotFound:
		return "指定されたリソースが見つかりません。"
	case http.StatusMethodNotAllowed:
		return "このメソッドは許可されていません。"
	case http.StatusConflict:
		return "要求はリソースの現在の状態と競合しています。"
	case http.StatusUnprocessableEntity:
		return "入力内容に誤りがあります。"
	default:
		return "サーバー内部でエラーが発生しました。"
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "email, phone or name is required":
		return "メールアドレス、電話番号、氏名のいずれかは必須です。"
	case "job id is required":
		return "求人 ID は必須です。"
	case "application id is required":
		return "応募 ID は必須です。"
	case "interviewer name is required":
		return "面接官の氏名は必須です。"
	case "interviewer email is required":
		return "面接官のメールアドレスは必須です。"
	case "interviewer email is invalid":
		return "面接官のメールアドレスの形式が不正です。"
	case "start is required":
		return "開始日時は必須です。"
	case "start must be in the future":
		return "開始日時は現在より後を指定してください。"
	case "meeting link is required for video interviews":
		return "ビデオ面接には会議 URL が必須です。"
	case "meeting link must be a valid URL":
		return "有効な URL を指定してください。"
	case "location is not allowed for video interviews":
		return "ビデオ面接には場所を指定できません。"
	case "location is required for in-person interviews":
		return "対面面接には場所が必須です。"
	case "meeting link is not allowed for in-person interviews":
		return "対面面接には会議 URL を指定できません。"
	case "location is not allowed for phone interviews":
		return "電話面接には場所を指定できません。"
	case "meeting link is not allowed for phone interviews":
		return "電話面接には会議 URL を指定できません。"
	case "type must be one of phone, video, in-person":
		return "面接形式は phone、video、in-person のいずれかを指定してください。"
	default:
		if strings.HasPrefix(message, "duration must be between") {
			return "面接時間は" + rangeSuffix(message, "duration must be between", "minutes") + "分の範囲で指定してください。"
		}
		if strings.HasPrefix(message, "days must be between") {
			return "日数は" + rangeSuffix(message, "days must be between", "") + "の範囲で指定してください。"
		}
		return message
	}
}

// rangeSuffix turns "prefix 15 and 480 unit" into "15〜480".
func rangeSuffix(message, prefix, unit string) string {
	body := strings.TrimSpace(strings.TrimPrefix(message, prefix))
	body = strings.TrimSpace(strings.TrimSuffix(body, unit))
	lo, hi, ok := strings.Cut(body, " and ")
	if !ok {
		return body
	}
	return strings.TrimSpace(lo) + "〜" + strings.TrimSpace(hi)
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
