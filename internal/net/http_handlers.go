// Package net exposes the server's HTTP surface: health, the spell catalog
// listing, runtime status, and the websocket mount point.
package net

import (
	"encoding/json"
	"net/http"

	"spellbolt/server/internal/telemetry"
	"spellbolt/server/spells/catalog"
)

// API bundles the read-only dependencies of the HTTP handlers.
type API struct {
	Catalog  *catalog.Catalog
	Counters *telemetry.Counters
}

// Routes mounts every HTTP handler on the mux. The websocket handler is
// passed in so this package stays free of upgrade concerns.
func (api *API) Routes(mux *http.ServeMux, wsHandler http.Handler) {
	mux.HandleFunc("/healthz", api.handleHealthz)
	mux.HandleFunc("/spells", api.handleSpells)
	mux.HandleFunc("/status", api.handleStatus)
	if wsHandler != nil {
		mux.Handle("/ws", wsHandler)
	}
}

func (api *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// spellListing is the wire shape for one catalog entry.
type spellListing struct {
	ID              string  `json:"id"`
	Element         string  `json:"element"`
	Speed           float64 `json:"speed"`
	Damage          float64 `json:"damage"`
	LifetimeSeconds float64 `json:"lifetimeSeconds"`
	CollisionRadius float64 `json:"collisionRadius"`
}

func (api *API) handleSpells(w http.ResponseWriter, r *http.Request) {
	listings := make([]spellListing, 0, api.Catalog.Len())
	for _, id := range api.Catalog.IDs() {
		kind, ok := api.Catalog.Resolve(id)
		if !ok {
			continue
		}
		listings = append(listings, spellListing{
			ID:              kind.ID,
			Element:         kind.Element,
			Speed:           kind.Speed,
			Damage:          kind.Damage,
			LifetimeSeconds: kind.LifetimeSeconds,
			CollisionRadius: kind.CollisionRadius,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"spells": listings})
}

func (api *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Counters.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
