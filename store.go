/*
 * Copyright (c) 2020 Siemens AG
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 *
 * Author(s): Jonas Plum
 */

package forensictimeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/forensictimeline/goflatten"
	"github.com/forensicanalysis/forensictimeline/merge"
	"github.com/forensicanalysis/forensictimeline/timeline"
)

const timelineVersion = 1
const timelineApplicationID = 1953064300

// sortLayout has a fixed width so the time column orders lexicographically.
const sortLayout = "2006-01-02T15:04:05.000000Z"

// The TimelineStore is a sqlite database holding a merged timeline. Entries are
// stored as json in a full text searchable table. On Close every tool gets a
// view with one column per flattened field.
type TimelineStore struct {
	cursor  *sqlite.Conn
	columns *columnMap
}

var ErrStoreExists = fmt.Errorf("store already exists")
var ErrStoreNotExists = fmt.Errorf("store does not exist")

// New creates a new timeline database.
func New(url string) (*TimelineStore, error) {
	return open(url, true)
}

// Open opens an existing timeline database.
func Open(url string) (*TimelineStore, error) {
	return open(url, false)
}

func pragma(conn *sqlite.Conn, name string) (int64, error) {
	stmt, err := conn.Prepare("PRAGMA " + name)
	if err != nil {
		return 0, err
	}
	_, err = stmt.Step()
	if err != nil {
		return 0, err
	}
	i := stmt.GetInt64(name)
	return i, stmt.Finalize()
}

func setPragma(conn *sqlite.Conn, name string, i int64) error {
	stmt, err := conn.Prepare("PRAGMA " + name + " = " + fmt.Sprint(i))
	if err != nil {
		return err
	}
	_, err = stmt.Step()
	if err != nil {
		return err
	}
	return stmt.Finalize()
}

func open(url string, create bool) (*TimelineStore, error) { // nolint:gocyclo,funlen
	if url != ":memory:" {
		exists := true
		_, err := os.Stat(url)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			exists = false
		}

		if create && exists {
			return nil, ErrStoreExists
		}
		if !create && !exists {
			return nil, ErrStoreNotExists
		}

		if create {
			err = os.MkdirAll(filepath.Dir(url), 0750)
			if err != nil {
				return nil, err
			}

			log.Printf("Creating timeline database %s", url)
			f, err := os.Create(url)
			if err != nil {
				return nil, err
			}
			if err := f.Close(); err != nil {
				return nil, err
			}
		}
	}

	store := &TimelineStore{columns: newColumnMap()}

	var err error
	store.cursor, err = sqlite.OpenConn(url, 0)
	if err != nil {
		return nil, err
	}

	if create {
		err = setPragma(store.cursor, "application_id", timelineApplicationID)
		if err != nil {
			return nil, store.closeWith(err)
		}

		err = setPragma(store.cursor, "user_version", timelineVersion)
		if err != nil {
			return nil, store.closeWith(err)
		}

		err = store.exec("CREATE VIRTUAL TABLE `entries` " +
			"USING fts5(id UNINDEXED, time UNINDEXED, tool UNINDEXED, json, tokenize=\"unicode61 tokenchars '/.'\")")
		if err != nil {
			return nil, store.closeWith(err)
		}
	} else {
		applicationID, err := pragma(store.cursor, "application_id")
		if err != nil {
			return nil, store.closeWith(err)
		}
		if applicationID != timelineApplicationID {
			msg := "wrong file format (application_id is %d, requires %d)"
			return nil, store.closeWith(fmt.Errorf(msg, applicationID, timelineApplicationID))
		}

		version, err := pragma(store.cursor, "user_version")
		if err != nil {
			return nil, store.closeWith(err)
		}
		if version != timelineVersion {
			msg := "wrong file format (user_version is %d, requires %d)"
			return nil, store.closeWith(fmt.Errorf(msg, version, timelineVersion))
		}
	}

	err = store.setupColumns()
	if err != nil {
		return nil, store.closeWith(err)
	}

	return store, nil
}

func (store *TimelineStore) closeWith(err error) error {
	_ = store.cursor.Close()
	return err
}

/* ################################
#   API
################################ */

// Insert adds a single entry and returns its id.
func (store *TimelineStore) Insert(entry timeline.Entry) (string, error) {
	b, err := entry.MarshalJSON()
	if err != nil {
		return "", errors.Wrap(err, "could not marshal entry")
	}

	flaws, err := ValidateEntry(b)
	if err != nil {
		return "", errors.Wrap(err, "validation failed")
	}
	if len(flaws) > 0 {
		return "", fmt.Errorf("entry could not be validated [%s]", strings.Join(flaws, ","))
	}

	flat := goflatten.Flatten(entry.Fields)
	flat[timeline.TimeField] = entry.Timestamp()
	store.columns.addAll(string(entry.Tool), flat)

	id := string(entry.Tool) + "--" + uuid.New().String()

	query := "INSERT INTO `entries` (id, time, tool, json) VALUES ($id, $time, $tool, $json)"
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("could not prepare statement %s", query))
	}
	stmt.SetText("$id", id)
	stmt.SetText("$time", entry.Time.UTC().Format(sortLayout))
	stmt.SetText("$tool", string(entry.Tool))
	stmt.SetText("$json", string(b))
	_, err = stmt.Step()
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprint("could not exec statement ", query))
	}

	return id, nil
}

// InsertBatch adds a set of entries in a single transaction. Either all
// entries are added or none.
func (store *TimelineStore) InsertBatch(entries []timeline.Entry) (ids []string, err error) {
	if len(entries) == 0 {
		return nil, nil
	}
	defer sqlitex.Save(store.cursor)(&err)

	for i, entry := range entries {
		id, err := store.Insert(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// All returns every entry in timeline order.
func (store *TimelineStore) All() ([]timeline.Entry, error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM `entries` ORDER BY time, rowid")
	if err != nil {
		return nil, err
	}
	return store.rowsToEntries(stmt)
}

// Select returns the entries of a single tool in timeline order.
func (store *TimelineStore) Select(tool timeline.Tool) ([]timeline.Entry, error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM `entries` WHERE tool = $tool ORDER BY time, rowid")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$tool", string(tool))
	return store.rowsToEntries(stmt)
}

// Search runs a full text query on the entries.
func (store *TimelineStore) Search(q string) ([]timeline.Entry, error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM `entries` WHERE entries = $query ORDER BY time, rowid")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$query", q)
	return store.rowsToEntries(stmt)
}

// Tools lists the tools with at least one entry.
func (store *TimelineStore) Tools() []timeline.Tool {
	var tools []timeline.Tool
	for tool := range store.columns.all() {
		tools = append(tools, timeline.Tool(tool))
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i] < tools[j] })
	return tools
}

// Close creates the per tool views and closes the database.
func (store *TimelineStore) Close() error {
	var err error
	if store.columns.changed {
		err = store.createViews()
	}

	if cerr := store.cursor.Close(); err == nil {
		err = cerr
	}
	return err
}

func (store *TimelineStore) createViews() error {
	for tool, fields := range store.columns.all() {
		err := store.exec(fmt.Sprintf("DROP VIEW IF EXISTS %s", quoteIdent(tool)))
		if err != nil {
			return err
		}

		var names []string
		for field := range fields {
			if field == timeline.TimeField || strings.Contains(field, `"`) {
				continue
			}
			names = append(names, field)
		}
		sort.Strings(names)

		columns := []string{column(timeline.TimeField)}
		for _, name := range names {
			columns = append(columns, column(name))
		}
		err = store.exec(
			fmt.Sprintf("CREATE VIEW %s AS SELECT %s FROM entries WHERE tool = %s ORDER BY time, rowid",
				quoteIdent(tool), strings.Join(columns, ", "), quoteLiteral(tool)),
		)
		if err != nil {
			return errors.Wrapf(err, "could not create view %s", tool)
		}
	}
	store.columns.changed = false
	return nil
}

// column selects a flattened field from the json column.
func column(field string) string {
	return fmt.Sprintf("json_extract(json, %s) AS %s", quoteLiteral(jsonPath(field)), quoteIdent(field))
}

// jsonPath converts a flattened field name into a sqlite json path,
// e.g. "a.0.b" becomes $."a"[0]."b".
func jsonPath(field string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, segment := range strings.Split(field, ".") {
		if _, err := strconv.Atoi(segment); err == nil {
			b.WriteString("[" + segment + "]")
			continue
		}
		b.WriteString(`."` + segment + `"`)
	}
	return b.String()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

/* ################################
#   Validate
################################ */

// Validate checks the database for various flaws: entries that violate the
// entry schema, tool or time columns that disagree with the stored json and
// entries that were not inserted in timeline order.
func (store *TimelineStore) Validate() (flaws []string, err error) {
	flaws = []string{}

	stmt, err := store.cursor.Prepare("SELECT id, time, tool, json FROM `entries` ORDER BY rowid")
	if err != nil {
		return nil, err
	}

	var entries []timeline.Entry
	for {
		if hasRow, err := stmt.Step(); err != nil {
			return nil, err
		} else if !hasRow {
			break
		}

		id := stmt.GetText("id")
		element := []byte(stmt.GetText("json"))

		entryFlaws, err := ValidateEntry(element)
		if err != nil {
			return nil, err
		}
		for _, flaw := range entryFlaws {
			flaws = append(flaws, fmt.Sprintf("%s: %s", id, flaw))
		}
		if len(entryFlaws) > 0 {
			continue
		}

		if tool := gjson.GetBytes(element, timeline.ToolField).String(); tool != stmt.GetText("tool") {
			flaws = append(flaws, fmt.Sprintf("%s: tool column %s does not match %s", id, stmt.GetText("tool"), tool))
		}

		var entry timeline.Entry
		if err := entry.UnmarshalJSON(element); err != nil {
			flaws = append(flaws, fmt.Sprintf("%s: %s", id, err))
			continue
		}
		if t := entry.Time.Format(sortLayout); t != stmt.GetText("time") {
			flaws = append(flaws, fmt.Sprintf("%s: time column %s does not match %s", id, stmt.GetText("time"), t))
		}
		entries = append(entries, entry)
	}
	if err := stmt.Finalize(); err != nil {
		return nil, err
	}

	if !merge.Sorted(entries) {
		flaws = append(flaws, "entries are not in timeline order")
	}
	return flaws, nil
}

/* ################################
#   Intern
################################ */

func (store *TimelineStore) rowsToEntries(stmt *sqlite.Stmt) (entries []timeline.Entry, err error) {
	entries = []timeline.Entry{}
	for {
		if hasRow, err := stmt.Step(); err != nil {
			return nil, err
		} else if !hasRow {
			break
		}
		var entry timeline.Entry
		if err := entry.UnmarshalJSON([]byte(stmt.GetText("json"))); err != nil {
			_ = stmt.Finalize()
			return nil, errors.Wrap(err, "could not decode entry")
		}
		entries = append(entries, entry)
	}
	return entries, stmt.Finalize()
}

func (store *TimelineStore) setupColumns() error {
	stmt, err := store.cursor.Prepare("SELECT name FROM sqlite_master WHERE type = 'view'")
	if err != nil {
		return err
	}

	var views []string
	for {
		if hasRow, err := stmt.Step(); err != nil {
			return err
		} else if !hasRow {
			break
		}
		views = append(views, stmt.GetText("name"))
	}
	if err := stmt.Finalize(); err != nil {
		return err
	}

	for _, name := range views {
		pragmaStmt, err := store.cursor.Prepare(fmt.Sprintf("PRAGMA table_info (%s)", quoteIdent(name)))
		if err != nil {
			return err
		}

		for {
			if pragmaHasRow, err := pragmaStmt.Step(); err != nil {
				return err
			} else if !pragmaHasRow {
				break
			}
			store.columns.add(name, pragmaStmt.GetText("name"))
		}
		err = pragmaStmt.Finalize()
		if err != nil {
			return err
		}
	}
	return nil
}

func (store *TimelineStore) exec(query string) error {
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return err
	}

	_, err = stmt.Step()
	if err != nil {
		return err
	}

	return stmt.Finalize()
}
