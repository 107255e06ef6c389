// internal/app/features/groups/grouplist.go
package groups

import (
	"context"
	"net/http"

	groupstore "github.com/dalemusser/circlehub/internal/app/store/groups"
	"github.com/dalemusser/circlehub/internal/app/system/apperr"
	"github.com/dalemusser/circlehub/internal/app/system/httpx"
	"github.com/dalemusser/circlehub/internal/app/system/paging"
	"github.com/dalemusser/circlehub/internal/app/system/timeouts"
	"github.com/dalemusser/circlehub/internal/domain/models"
)

// HandleListGroups lists groups visible to the caller, newest first.
// Query parameters: type, tag, mine=true, limit, offset. Secret groups
// never appear unless the caller is a member.
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}

	page := paging.Parse(r)
	f := groupstore.ListFilter{
		Type:   r.URL.Query().Get("type"),
		Tag:    r.URL.Query().Get("tag"),
		Limit:  page.LimitPlusOne(),
		Offset: int64(page.Offset),
	}
	if f.Type != "" && !models.ValidGroupType(f.Type) {
		httpx.WriteError(w, h.Log, apperr.Newf(apperr.InvalidArgument, "unknown group type %q", f.Type))
		return
	}
	if r.URL.Query().Get("mine") == "true" {
		id := user.ID
		f.MemberID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Groups.List(ctx, f, user.ID)
	if err != nil {
		httpx.WriteError(w, h.Log, err)
		return
	}
	env := paging.Trim(&rows, page)

	items := make([]groupSummary, 0, len(rows))
	for i := range rows {
		items = append(items, summarize(&rows[i], memberStatus(&rows[i], user.ID)))
	}
	httpx.WriteJSON(w, http.StatusOK, listEnvelope{Items: items, Paging: env})
}
