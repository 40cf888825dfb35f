package main

import (
	"context"
	"log"
	"net/http"
	"time"
)

type httpStatusService struct {
	srv     *http.Server
	handler *apiHandler
}

func (h *httpStatusService) launch(handler *apiHandler, addr string) {
	h.handler = handler
	h.srv = &http.Server{Addr: addr, Handler: newRouter(handler)}

	// add to the wg
	wg.Add(1)

	// launch the server
	go func(srv *http.Server) {
		defer wg.Done()
		log.Printf("starting status service http server on %s", addr)
		err := srv.ListenAndServe()
		if err != http.ErrServerClosed {
			log.Printf("Error: %s", err)
		}
		log.Print("Exiting status service")
	}(h.srv)
}

func (h *httpStatusService) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		log.Printf("Error: %s", err)
	}
}
