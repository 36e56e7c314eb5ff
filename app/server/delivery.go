package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/forki/fs-swim/pkg/swim"
	"github.com/forki/fs-swim/pkg/util/config"
	"github.com/forki/fs-swim/pkg/util/mlog"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// deliveryService exposes the membership view over a small admin http
// endpoint, next to the health and metrics handlers.
type deliveryService struct {
	cfg  *config.Server
	swim *swim.Server
	srv  *http.Server
}

func newDeliveryService(cfg *config.Server, s *swim.Server) *deliveryService {
	d := &deliveryService{cfg: cfg, swim: s}
	d.srv = &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: d.makeHandler(),
	}
	return d
}

func (d *deliveryService) makeHandler() http.Handler {
	r := mux.NewRouter()

	// API routers.
	ar := r.PathPrefix("/v1").Subrouter()
	ar.Methods("GET").Path("/members").HandlerFunc(d.membersHandler)
	ar.Methods("GET").Path("/local").HandlerFunc(d.localHandler)

	r.Methods("GET").Path("/health").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Methods("GET").Path("/metrics").Handler(
		promhttp.HandlerFor(swim.Registry, promhttp.HandlerOpts{}))

	return r
}

// memberView is the json rendering of a member entry.
type memberView struct {
	Addr        string `json:"addr"`
	Status      string `json:"status"`
	Incarnation uint64 `json:"incarnation"`
}

func toView(m swim.Member) memberView {
	return memberView{
		Addr:        m.Addr.String(),
		Status:      m.Status.String(),
		Incarnation: uint64(m.Incarnation),
	}
}

func (d *deliveryService) membersHandler(w http.ResponseWriter, r *http.Request) {
	members := d.swim.GetMap()
	sort.Slice(members, func(i, j int) bool {
		return members[i].Addr < members[j].Addr
	})

	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, toView(m))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		mlog.GetMethodLogger(logger, "membersHandler").Error(err)
	}
}

func (d *deliveryService) localHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toView(d.swim.Local())); err != nil {
		mlog.GetMethodLogger(logger, "localHandler").Error(err)
	}
}

func (d *deliveryService) run() {
	ctxLogger := mlog.GetMethodLogger(logger, "deliveryService.run")

	go func() {
		if err := d.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ctxLogger.Error(err)
		}
	}()
}

func (d *deliveryService) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.srv.Shutdown(ctx); err != nil {
		mlog.GetMethodLogger(logger, "deliveryService.stop").Error(err)
	}
}
