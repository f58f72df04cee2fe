/*
 * remote.go, part of gomd.
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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	md "github.com/rmera/gomd"
	v3 "github.com/rmera/gomd/v3"
	"gonum.org/v1/gonum/mat"
)

//RemoteOptions configures the remote calculator: where the inference
//endpoint lives and how hard to retry it. Zero-valued fields take the
//defaults of DefaultRemoteOptions.
type RemoteOptions struct {
	Endpoint        string
	Token           string        //bearer token, empty for none
	Timeout         time.Duration //per-request HTTP timeout
	InitialInterval time.Duration //first backoff delay
	Multiplier      float64       //backoff growth factor
	MaxAttempts     int           //total tries, including the first
	MaxElapsed      time.Duration //total retry budget
}

//DefaultRemoteOptions returns the retry policy used when the caller
//does not set one: 5 attempts starting at half a second, doubling,
//within a two-minute budget.
func DefaultRemoteOptions(endpoint string) RemoteOptions {
	return RemoteOptions{
		Endpoint:        endpoint,
		Timeout:         60 * time.Second,
		InitialInterval: 500 * time.Millisecond,
		Multiplier:      2.0,
		MaxAttempts:     5,
		MaxElapsed:      2 * time.Minute,
	}
}

//Stats reports what the last Compute call cost: how many HTTP
//attempts were made and how long the whole call took, retries
//included. Individual retry attempts are not surfaced elsewhere.
type Stats struct {
	Attempts int
	Elapsed  time.Duration
}

//Remote is the network calculator variant. Each Compute POSTs the
//structure to an inference endpoint and retries transient failures
//(connection errors, timeouts, HTTP 5xx and 429) with exponential
//backoff; a 4xx rejection fails immediately without consuming the
//retry budget. Results from a remote model are not guaranteed
//bit-reproducible between calls: the endpoint may batch or reduce in
//a different order. Remote is meant for one simulation at a time, as
//Stats reports on the latest call only.
type Remote struct {
	opts   RemoteOptions
	client *http.Client
	stats  Stats
}

//NewRemote builds a remote calculator. Missing retry fields are
//filled from DefaultRemoteOptions.
func NewRemote(opts RemoteOptions) *Remote {
	def := DefaultRemoteOptions(opts.Endpoint)
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = def.InitialInterval
	}
	if opts.Multiplier <= 1 {
		opts.Multiplier = def.Multiplier
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = def.MaxElapsed
	}
	return &Remote{opts: opts, client: &http.Client{Timeout: opts.Timeout}}
}

func (R *Remote) Name() string { return "remote" }

//Options returns the configuration the calculator was built with,
//defaults filled in. The reproduction script echoes these.
func (R *Remote) Options() RemoteOptions { return R.opts }

//Stats returns the attempt count and elapsed time of the most recent
//Compute call, for diagnostics.
func (R *Remote) Stats() Stats { return R.stats }

//The wire format: the structure is spelled out field by field, the
//properties list tells the endpoint whether stress is wanted, and
//the task name selects the model head.
type remoteRequest struct {
	Inputs     remoteInputs `json:"inputs"`
	Properties []string     `json:"properties"`
	TaskName   string       `json:"task_name"`
}

type remoteInputs struct {
	Numbers   []int        `json:"numbers"`
	Positions [][3]float64 `json:"positions"`
	Cell      [][3]float64 `json:"cell,omitempty"`
	PBC       [3]bool      `json:"pbc"`
	Charge    int          `json:"charge"`
	Spin      int          `json:"spin"`
}

type remoteResponse struct {
	Results struct {
		Energy *float64     `json:"energy"`
		Forces [][3]float64 `json:"forces"`
		Stress [][]float64  `json:"stress"`
	} `json:"results"`
	Error string `json:"error"`
}

//Compute sends one evaluation to the endpoint, retrying transient
//failures under the configured backoff policy. After the budget is
//exhausted the error wraps both ErrRemoteExhausted and the last
//underlying failure.
func (R *Remote) Compute(ctx context.Context, s *md.Structure, task md.Task, wantStress bool) (*Result, error) {
	body, err := json.Marshal(buildRequest(s, task, wantStress))
	if err != nil {
		return nil, md.Decorate(err, "Remote.Compute")
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = R.opts.InitialInterval
	bo.Multiplier = R.opts.Multiplier
	bo.MaxElapsedTime = R.opts.MaxElapsed
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(R.opts.MaxAttempts-1)), ctx)

	var result *Result
	var permanent bool
	start := time.Now()
	R.stats = Stats{}
	attempt := func() error {
		R.stats.Attempts++
		r, transient, err := R.once(ctx, body, s.Len())
		if err != nil {
			if !transient {
				permanent = true
				return backoff.Permanent(err)
			}
			return err
		}
		result = r
		return nil
	}
	err = backoff.Retry(attempt, policy)
	R.stats.Elapsed = time.Since(start)
	if err != nil {
		if permanent {
			return nil, md.Decorate(err, "Remote.Compute")
		}
		//joining keeps the last underlying failure reachable with
		//errors.Is/As alongside the sentinel
		return nil, md.NewError(errors.Join(md.ErrRemoteExhausted, err),
			fmt.Sprintf("calc: remote endpoint failed after %d attempts over %v: %v", R.stats.Attempts, R.stats.Elapsed.Round(time.Millisecond), err),
			"Remote.Compute")
	}
	if err := checkFinite(result); err != nil {
		return nil, md.Decorate(err, "Remote.Compute")
	}
	return result, nil
}

func buildRequest(s *md.Structure, task md.Task, wantStress bool) remoteRequest {
	in := remoteInputs{
		Numbers:   s.Numbers(),
		Positions: make([][3]float64, s.Len()),
		PBC:       s.Periodic,
		Charge:    s.Charge,
		Spin:      s.Spin,
	}
	for i := 0; i < s.Len(); i++ {
		in.Positions[i] = [3]float64{s.Coord.At(i, 0), s.Coord.At(i, 1), s.Coord.At(i, 2)}
	}
	if s.Cell != nil {
		in.Cell = make([][3]float64, 3)
		for i := 0; i < 3; i++ {
			in.Cell[i] = [3]float64{s.Cell.At(i, 0), s.Cell.At(i, 1), s.Cell.At(i, 2)}
		}
	}
	props := []string{"energy", "forces"}
	if wantStress {
		props = append(props, "stress")
	}
	return remoteRequest{Inputs: in, Properties: props, TaskName: task.WireName()}
}

//once runs a single HTTP attempt. The second return value says
//whether a failure is worth retrying.
func (R *Remote) once(ctx context.Context, body []byte, natoms int) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, R.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if R.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+R.opts.Token)
	}
	resp, err := R.client.Do(req)
	if err != nil {
		//connection errors and timeouts are transient
		return nil, true, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusRequestTimeout:
		return nil, true, fmt.Errorf("calc: endpoint returned %s: %s", resp.Status, firstLine(data))
	case resp.StatusCode >= 400:
		//a validation rejection will not get better on retry
		return nil, false, fmt.Errorf("calc: endpoint rejected the request with %s: %s", resp.Status, firstLine(data))
	}
	var dec remoteResponse
	if err := json.Unmarshal(data, &dec); err != nil {
		return nil, false, fmt.Errorf("calc: malformed endpoint response: %v", err)
	}
	if dec.Error != "" {
		return nil, false, fmt.Errorf("calc: endpoint error: %s", dec.Error)
	}
	if dec.Results.Energy == nil || len(dec.Results.Forces) != natoms {
		return nil, false, fmt.Errorf("calc: endpoint response missing energy or forces for %d atoms", natoms)
	}
	forces := v3.Zeros(natoms)
	for i, f := range dec.Results.Forces {
		forces.Set(i, 0, f[0])
		forces.Set(i, 1, f[1])
		forces.Set(i, 2, f[2])
	}
	r := &Result{Energy: *dec.Results.Energy, Forces: forces}
	if len(dec.Results.Stress) == 3 {
		r.Stress = mat.NewDense(3, 3, nil)
		for i, row := range dec.Results.Stress {
			if len(row) != 3 {
				return nil, false, fmt.Errorf("calc: malformed stress in endpoint response")
			}
			for j, v := range row {
				r.Stress.Set(i, j, v)
			}
		}
	}
	return r, false, nil
}

func firstLine(data []byte) string {
	for i, b := range data {
		if b == '\n' {
			data = data[:i]
			break
		}
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(data)
}
