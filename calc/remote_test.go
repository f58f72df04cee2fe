/*
 * remote_test.go, part of gomd.
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package calc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	md "github.com/rmera/gomd"
)

//a handler that fails n times before answering properly
func flakyHandler(failures int, status int, calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if *calls <= failures {
			http.Error(w, "transient", status)
			return
		}
		var req remoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n := len(req.Inputs.Numbers)
		forces := make([][3]float64, n)
		fmt.Fprintf(w, `{"results": {"energy": -1.25, "forces": %s}}`, mustJSON(forces))
	}
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func fastOptions(url string) RemoteOptions {
	return RemoteOptions{
		Endpoint:        url,
		InitialInterval: time.Millisecond,
		Multiplier:      1.5,
		MaxAttempts:     4,
		MaxElapsed:      5 * time.Second,
	}
}

func TestRemoteRetriesThenSucceeds(Te *testing.T) {
	calls := 0
	srv := httptest.NewServer(flakyHandler(2, http.StatusBadGateway, &calls))
	defer srv.Close()
	c := NewRemote(fastOptions(srv.URL))
	r, err := c.Compute(context.Background(), argonDimer(Te, 3.8), md.OMat, false)
	if err != nil {
		Te.Fatal(err)
	}
	if calls != 3 {
		Te.Errorf("expected exactly 3 attempts, the server saw %d", calls)
	}
	if c.Stats().Attempts != 3 {
		Te.Errorf("Stats reports %d attempts, want 3", c.Stats().Attempts)
	}
	if r.Energy != -1.25 || r.Forces.NVecs() != 2 {
		Te.Errorf("unexpected result: E=%g natoms=%d", r.Energy, r.Forces.NVecs())
	}
	fmt.Println("remote recovered after", calls, "attempts")
}

func TestRemoteExhausted(Te *testing.T) {
	calls := 0
	srv := httptest.NewServer(flakyHandler(1000, http.StatusInternalServerError, &calls))
	defer srv.Close()
	c := NewRemote(fastOptions(srv.URL))
	_, err := c.Compute(context.Background(), argonDimer(Te, 3.8), md.OMat, false)
	if !errors.Is(err, md.ErrRemoteExhausted) {
		Te.Fatalf("expected ErrRemoteExhausted, got %v", err)
	}
	if calls != 4 {
		Te.Errorf("expected exactly MaxAttempts=4 attempts, the server saw %d", calls)
	}
	//the last underlying failure rides in the chain next to the
	//sentinel, reachable for errors.Is/As diagnostics
	var multi interface{ Unwrap() []error }
	if !errors.As(err, &multi) {
		Te.Fatal("the exhaustion error should join the sentinel with the last failure")
	}
	found := false
	for _, e := range multi.Unwrap() {
		if e != md.ErrRemoteExhausted && strings.Contains(e.Error(), "500") {
			found = true
		}
	}
	if !found {
		Te.Errorf("the last HTTP failure is missing from the chain of %v", err)
	}
}

func TestRemoteRejectionNotRetried(Te *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad structure", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()
	c := NewRemote(fastOptions(srv.URL))
	_, err := c.Compute(context.Background(), argonDimer(Te, 3.8), md.OMat, false)
	if err == nil {
		Te.Fatal("expected an error from a 422 response")
	}
	if errors.Is(err, md.ErrRemoteExhausted) {
		Te.Error("a 4xx rejection must not be reported as retry exhaustion")
	}
	if calls != 1 {
		Te.Errorf("a 4xx rejection must not be retried, the server saw %d calls", calls)
	}
}

func TestRemoteSendsWireFormat(Te *testing.T) {
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"results": {"energy": 0.0, "forces": %s}}`, mustJSON(make([][3]float64, len(got.Inputs.Numbers))))
	}))
	defer srv.Close()
	c := NewRemote(fastOptions(srv.URL))
	s := argonDimer(Te, 3.8)
	s.Charge = 0
	s.Spin = 0
	if _, err := c.Compute(context.Background(), s, md.OC20, true); err != nil {
		Te.Fatal(err)
	}
	if got.TaskName != "oc20" {
		Te.Errorf("task on the wire: %q, want oc20", got.TaskName)
	}
	if len(got.Inputs.Numbers) != 2 || got.Inputs.Numbers[0] != 18 {
		Te.Errorf("atomic numbers on the wire: %v", got.Inputs.Numbers)
	}
	if len(got.Properties) != 3 || got.Properties[2] != "stress" {
		Te.Errorf("properties on the wire: %v, stress was requested", got.Properties)
	}
}
