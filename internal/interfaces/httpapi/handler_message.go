package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMessages")
	defer span.End()

	filter, err := messageFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.messages.List(ctx, filter, limit)
	if err != nil {
		h.fail(ctx, w, "list messages failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messagesToDTO(items))
}

func (h *Handler) ListRecentMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecentMessages")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.messages.Recent(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "list recent messages failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messagesToDTO(items))
}

func (h *Handler) GetUnreadMessageCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUnreadMessageCount")
	defer span.End()

	count, err := h.messages.UnreadCount(ctx)
	if err != nil {
		h.fail(ctx, w, "unread count failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMessage")
	defer span.End()

	messageID := r.PathValue("messageID")
	item, ok, err := h.messages.GetByID(ctx, messageID)
	if err == nil && !ok {
		err = notFound("message", messageID)
	}
	if err != nil {
		h.fail(ctx, w, "get message failed", err, "message_id", messageID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageToDTO(item))
}

func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMessage")
	defer span.End()

	var req createMessageRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.messages.Create(ctx, usecase.CreateMessageInput{
		Sender:     strings.TrimSpace(req.Sender),
		Content:    req.Content,
		Recipients: message.Audience(req.Recipients),
	})
	if err != nil {
		h.fail(ctx, w, "create message failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, messageToDTO(item))
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMessage")
	defer span.End()

	messageID := r.PathValue("messageID")
	ok, err := h.messages.Delete(ctx, messageID)
	if err == nil && !ok {
		err = notFound("message", messageID)
	}
	if err != nil {
		h.fail(ctx, w, "delete message failed", err, "message_id", messageID)
		return
	}

	writeDeleted(ctx, w)
}

func messageFilterFromQuery(r *http.Request) (message.Filter, error) {
	var filter message.Filter

	if raw := strings.TrimSpace(r.URL.Query().Get("recipients")); raw != "" {
		filter.Recipients = message.Audience(raw)
		if !filter.Recipients.Valid() {
			return message.Filter{}, fmt.Errorf("%w: unknown recipients %q", usecase.ErrInvalidInput, raw)
		}
	}
	filter.Sender = strings.TrimSpace(r.URL.Query().Get("sender"))

	var err error
	if filter.Start, err = queryTime(r, "start"); err != nil {
		return message.Filter{}, err
	}
	if filter.End, err = queryTime(r, "end"); err != nil {
		return message.Filter{}, err
	}
	return filter, nil
}
