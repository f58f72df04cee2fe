/*
 * store_test.go, part of gomd.
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

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	md "github.com/rmera/gomd"
)

func openTest(Te *testing.T) *Store {
	s, err := Open(filepath.Join(Te.TempDir(), "runs.db"))
	require.NoError(Te, err)
	Te.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(Te *testing.T) {
	s := openTest(Te)
	ctx := context.Background()
	rec := &Record{
		ID:       "f1d0c0de-0000-4000-8000-000000000001",
		Kind:     "relax",
		Task:     md.OMol,
		Status:   md.Converged,
		NAtoms:   3,
		Steps:    12,
		Energy:   -76.345,
		TrajPath: "/tmp/water.extxyz",
		Params:   `{"fmax":0.05,"steps":300}`,
		Log:      "validation passed natoms=3\nrun finished status=Converged",
		Script:   "#!/bin/sh\ngomd relax ...\n",
	}
	require.NoError(Te, s.Save(ctx, rec))
	got, err := s.Get(ctx, rec.ID)
	require.NoError(Te, err)
	assert.Equal(Te, rec.Kind, got.Kind)
	assert.Equal(Te, md.OMol, got.Task)
	assert.Equal(Te, md.Converged, got.Status)
	assert.Equal(Te, rec.Energy, got.Energy)
	assert.Equal(Te, rec.Params, got.Params)
	assert.Equal(Te, rec.Script, got.Script)
	assert.False(Te, got.Created.IsZero(), "Save must stamp the creation time")
	fmt.Println("stored run", got.ID, got.Status)
}

func TestGetMissing(Te *testing.T) {
	s := openTest(Te)
	_, err := s.Get(context.Background(), "no-such-run")
	assert.Error(Te, err)
}

func TestRecentOrdering(Te *testing.T) {
	s := openTest(Te)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := &Record{
			ID:      fmt.Sprintf("run-%d", i),
			Created: base.Add(time.Duration(i) * time.Minute),
			Kind:    "md",
			Task:    md.OMat,
			Status:  md.Completed,
			NAtoms:  10,
			Steps:   100,
			Energy:  -float64(i),
		}
		require.NoError(Te, s.Save(ctx, rec))
	}
	recs, err := s.Recent(ctx, 3)
	require.NoError(Te, err)
	require.Len(Te, recs, 3)
	assert.Equal(Te, "run-4", recs[0].ID, "newest first")
	assert.Equal(Te, "run-3", recs[1].ID)
	assert.Equal(Te, "run-2", recs[2].ID)
}

func TestDuplicateIDRejected(Te *testing.T) {
	s := openTest(Te)
	ctx := context.Background()
	rec := &Record{ID: "dup", Kind: "relax", Task: md.OMol, Status: md.Failed}
	require.NoError(Te, s.Save(ctx, rec))
	assert.Error(Te, s.Save(ctx, rec), "run IDs are primary keys")
}

func TestSurvivesReopen(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(Te, err)
	require.NoError(Te, s.Save(context.Background(), &Record{ID: "keep", Kind: "md", Task: md.OC20, Status: md.Cancelled}))
	require.NoError(Te, s.Close())
	s, err = Open(path)
	require.NoError(Te, err)
	defer s.Close()
	got, err := s.Get(context.Background(), "keep")
	require.NoError(Te, err)
	assert.Equal(Te, md.Cancelled, got.Status)
}
