package server

import (
	"context"
	"flagreg/pkg/build"
	"flagreg/pkg/flags"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// StatusServer exposes the resolved option set of a process over HTTP. It is
// a thin collaborator around the flags registry: all parsing happens before
// the server starts, the handlers only read the handles they were given.
type StatusServer struct {
	Name    string
	Addr    string
	Started chan struct{}

	opts   map[string]*flags.Value
	router *mux.Router
	srv    *http.Server
	wg     sync.WaitGroup
}

func NewStatusServer(addr string, opts map[string]*flags.Value) *StatusServer {
	s := &StatusServer{
		Name:    "flagreg",
		Addr:    addr,
		Started: make(chan struct{}),
		opts:    opts,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet)
	r.HandleFunc("/options/{key}", s.handleOption).Methods(http.MethodGet)
	s.router = r

	return s
}

// optionData flattens the option handles into plain values for marshalling.
// Vector options render as lists, scalars as their text.
func (s *StatusServer) optionData() map[string]interface{} {
	data := make(map[string]interface{}, len(s.opts))
	for key, val := range s.opts {
		if list, err := val.List(); err == nil {
			data[key] = list
			continue
		}

		text, err := val.Text()
		if err != nil {
			log.Error().Err(err).Msgf("option %s is neither scalar nor vector", key)
			continue
		}
		data[key] = text
	}

	return data
}

func (s *StatusServer) writeYaml(w http.ResponseWriter, data interface{}) {
	body, err := yaml.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	if _, err = w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (s *StatusServer) handleRoot(w http.ResponseWriter, req *http.Request) {
	s.writeYaml(w, map[string]interface{}{
		"name":  s.Name,
		"build": build.Data(),
	})
}

func (s *StatusServer) handleOptions(w http.ResponseWriter, req *http.Request) {
	s.writeYaml(w, s.optionData())
}

func (s *StatusServer) handleOption(w http.ResponseWriter, req *http.Request) {
	key := mux.Vars(req)["key"]

	data := s.optionData()
	val, ok := data["-"+key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s.writeYaml(w, map[string]interface{}{"-" + key: val})
}

func (s *StatusServer) Start() (err error) {
	s.srv = &http.Server{
		Addr:    s.Addr,
		Handler: s.router,
	}

	errChan := make(chan error, 1)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log.Debug().Msgf("%s serving requests on %s", s.Name, s.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- xerrors.Errorf("%s listen failure: %w", s.Addr, err)
			return
		}
		log.Debug().Msgf("%s server listening on %s has shutdown", s.Name, s.Addr)
		errChan <- nil
	}()

	close(s.Started)
	s.wg.Wait()
	close(errChan)

	return <-errChan
}

func (s *StatusServer) Stop() error {
	wait := 15 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if s.srv != nil {
		s.srv.Shutdown(ctx)
	}

	log.Debug().Msgf("%s listening server has shutdown", s.Name)
	return nil
}

func (s *StatusServer) IsStarted() chan struct{} {
	return s.Started
}
