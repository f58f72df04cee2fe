/*
 * store.go, part of gomd.
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

//Package store persists finished simulation runs in a SQLite file, so
//the history of a workstation survives restarts and the report and
//runs commands can look runs up later. Trajectories stay on disk
//next to the database; only their paths are recorded.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	md "github.com/rmera/gomd"
)

//Record is one finished run as persisted. Params holds the engine
//parameters as JSON, whatever the engine was; Log is the captured
//run log joined with newlines.
type Record struct {
	ID       string
	Created  time.Time
	Kind     string //"relax" or "md"
	Task     md.Task
	Status   md.Status
	NAtoms   int
	Steps    int
	Energy   float64
	TrajPath string
	Params   string //JSON
	Log      string
	Script   string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created TEXT NOT NULL,
    kind TEXT NOT NULL,
    task TEXT NOT NULL,
    status TEXT NOT NULL,
    natoms INTEGER NOT NULL,
    steps INTEGER NOT NULL,
    energy REAL NOT NULL,
    traj_path TEXT,
    params TEXT,
    log TEXT,
    script TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
`

//Store is a run archive backed by a SQLite file.
type Store struct {
	db *sql.DB
}

//Open opens (creating if needed) the run archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, md.Decorate(err, "store.Open")
	}
	//SQLite wants a single writer
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, md.NewError(err, fmt.Sprintf("store: could not initialize the schema in %s", path), "store.Open")
	}
	return &Store{db: db}, nil
}

//Save inserts one finished run. A zero Created is stamped with the
//current time.
func (S *Store) Save(ctx context.Context, r *Record) error {
	if r.Created.IsZero() {
		r.Created = time.Now()
	}
	_, err := S.db.ExecContext(ctx, `INSERT INTO runs
		(id, created, kind, task, status, natoms, steps, energy, traj_path, params, log, script)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Created.UTC().Format(time.RFC3339Nano), r.Kind, r.Task.String(), r.Status.String(),
		r.NAtoms, r.Steps, r.Energy, r.TrajPath, r.Params, r.Log, r.Script)
	if err != nil {
		return md.NewError(err, fmt.Sprintf("store: could not save run %s", r.ID), "Store.Save")
	}
	return nil
}

//Get retrieves one run by its ID.
func (S *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := S.db.QueryRowContext(ctx, `SELECT id, created, kind, task, status, natoms,
		steps, energy, traj_path, params, log, script FROM runs WHERE id = ?`, id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, md.NewError(nil, fmt.Sprintf("store: no run with id %s", id), "Store.Get")
	}
	if err != nil {
		return nil, md.Decorate(err, "Store.Get")
	}
	return r, nil
}

//Recent returns up to n runs, newest first.
func (S *Store) Recent(ctx context.Context, n int) ([]*Record, error) {
	rows, err := S.db.QueryContext(ctx, `SELECT id, created, kind, task, status, natoms,
		steps, energy, traj_path, params, log, script FROM runs ORDER BY created DESC LIMIT ?`, n)
	if err != nil {
		return nil, md.Decorate(err, "Store.Recent")
	}
	defer rows.Close()
	var recs []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, md.Decorate(err, "Store.Recent")
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, md.Decorate(err, "Store.Recent")
	}
	return recs, nil
}

//Close releases the database.
func (S *Store) Close() error {
	return S.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var r Record
	var created, task, status string
	err := sc.Scan(&r.ID, &created, &r.Kind, &task, &status, &r.NAtoms,
		&r.Steps, &r.Energy, &r.TrajPath, &r.Params, &r.Log, &r.Script)
	if err != nil {
		return nil, err
	}
	if r.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, md.NewError(err, fmt.Sprintf("store: run %s carries a malformed timestamp %q", r.ID, created), "scanRecord")
	}
	if r.Task, err = md.ParseTask(task); err != nil {
		return nil, md.Decorate(err, "scanRecord")
	}
	if r.Status, err = md.ParseStatus(status); err != nil {
		return nil, md.Decorate(err, "scanRecord")
	}
	return &r, nil
}
