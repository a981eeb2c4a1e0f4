package slowcontrol

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mwantia/textdb/data"
)

func openTestDB(t *testing.T) *Client {
	t.Helper()

	client, err := OpenSnapshot(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSnapshot failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	statements := []string{
		`CREATE TABLE diode_info (
			crate INTEGER, slot INTEGER, channel INTEGER,
			"group" TEXT, label TEXT, status INTEGER,
			itol REAL, vtol REAL, iupd REAL, vupd REAL, tstamp TEXT)`,
		`CREATE TABLE diode_snap (
			crate INTEGER, slot INTEGER, channel INTEGER,
			vmon REAL, imon REAL, status INTEGER, almask INTEGER, tstamp TEXT)`,
		`CREATE TABLE diode_conf_mon (
			confid INTEGER, crate INTEGER, slot INTEGER, channel INTEGER,
			vset REAL, iset REAL, rup INTEGER, rdown INTEGER, trip REAL,
			vmax INTEGER, pwkill TEXT, pwon TEXT, tstamp TEXT)`,
		`INSERT INTO diode_info VALUES
			(0, 0, 2, 'strings', 'V02162B', 1, 0.1, 1.0, 0.5, 0.5, '2022-06-01T00:00:00Z')`,
		`INSERT INTO diode_snap VALUES
			(0, 0, 2, 3399.9, 0.00015, 1, 0, '2022-06-28T22:00:00Z'),
			(0, 0, 2, 3400.1, 0.00017, 1, 0, '2022-06-29T22:00:00Z'),
			(0, 1, 5, 1120.2, 0.00005, 1, 0, '2022-06-28T22:00:00Z')`,
		`INSERT INTO diode_conf_mon VALUES
			(15, 0, 0, 2, 3400.0, 6.0, 10, 5, 10.0, 6000, 'KILL', 'Dis', '2022-06-01T00:00:00Z')`,
	}
	for _, stmt := range statements {
		if _, err := client.db.Exec(stmt); err != nil {
			t.Fatalf("Exec failed: %v", err)
		}
	}

	return client
}

func gedsChannel(slot, channel int) *data.Document {
	return data.Convert(map[string]any{
		"system": "geds",
		"voltage": map[string]any{
			"card":    map[string]any{"id": slot},
			"channel": channel,
		},
	})
}

func TestSelect(t *testing.T) {
	client := openTestDB(t)

	docs, err := client.Select(context.Background(),
		"SELECT channel, vmon FROM diode_snap ORDER BY tstamp LIMIT 2")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(docs))
	}

	if got, _ := docs[0].Get("vmon"); got != 3399.9 {
		t.Errorf("Expected vmon=3399.9, got %v", got)
	}
}

func TestTables(t *testing.T) {
	client := openTestDB(t)

	names, err := client.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}

	want := []string{"diode_conf_mon", "diode_info", "diode_snap"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Expected %v, got %v", want, names)
	}
}

func TestColumns(t *testing.T) {
	client := openTestDB(t)

	columns, err := client.Columns(context.Background(), "diode_snap")
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}
	if !reflect.DeepEqual(columns, DiodeSnap.Columns) {
		t.Errorf("Expected %v, got %v", DiodeSnap.Columns, columns)
	}
}

func TestStatus(t *testing.T) {
	client := openTestDB(t)

	at := time.Date(2022, 6, 29, 0, 0, 0, 0, time.UTC)
	status, err := client.Status(context.Background(), gedsChannel(0, 2), at, "")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	// latest snapshot not after the query time
	if got, _ := status.Get("vmon"); got != 3399.9 {
		t.Errorf("Expected vmon=3399.9, got %v", got)
	}
	if got, _ := status.Get("label"); got != "V02162B" {
		t.Errorf("Expected label=V02162B, got %v", got)
	}
	if got, _ := status.Get("vset"); got != 3400.0 {
		t.Errorf("Expected vset=3400.0, got %v", got)
	}
}

func TestStatus_PicksLatestRow(t *testing.T) {
	client := openTestDB(t)

	at := time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)
	status, err := client.Status(context.Background(), gedsChannel(0, 2), at, "")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if got, _ := status.Get("vmon"); got != 3400.1 {
		t.Errorf("Expected vmon=3400.1, got %v", got)
	}
}

func TestStatus_SkipsTablesWithoutRows(t *testing.T) {
	client := openTestDB(t)

	// slot 1 channel 5 only has a snapshot row
	at := time.Date(2022, 6, 29, 0, 0, 0, 0, time.UTC)
	status, err := client.Status(context.Background(), gedsChannel(1, 5), at, "")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if got, _ := status.Get("vmon"); got != 1120.2 {
		t.Errorf("Expected vmon=1120.2, got %v", got)
	}
	if _, ok := status.Get("vset"); ok {
		t.Error("Expected no configuration columns for channel without conf rows")
	}
}

func TestStatus_NoInformation(t *testing.T) {
	client := openTestDB(t)

	at := time.Date(2022, 6, 29, 0, 0, 0, 0, time.UTC)
	if _, err := client.Status(context.Background(), gedsChannel(7, 7), at, ""); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStatus_UnknownSystem(t *testing.T) {
	client := openTestDB(t)

	at := time.Now()
	if _, err := client.Status(context.Background(), data.NewDocument(), at, "auxs"); !errors.Is(err, data.ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}
}

func TestConnect_MissingPassword(t *testing.T) {
	t.Setenv(EnvPassword, "")

	if _, err := Connect(context.Background()); !errors.Is(err, data.ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}
}

func TestSessionID(t *testing.T) {
	client := openTestDB(t)

	if client.Session() == "" {
		t.Error("Expected a session identifier")
	}
}
