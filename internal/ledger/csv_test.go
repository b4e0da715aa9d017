package ledger

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLedger(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collection.csv")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadWriteRoundTrip(t *testing.T) {
	in := "set,nr,note1,note2,lang\nswsh1,025,Reverse,,de\ncel25,7,,TG,en\n"
	f, err := Read(writeLedger(t, []byte(in)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(f.Header, []string{"set", "nr", "note1", "note2", "lang"}) {
		t.Fatalf("header = %v", f.Header)
	}
	if len(f.Rows) != 2 {
		t.Fatalf("rows = %d", len(f.Rows))
	}
	if f.Rows[0].Get("set") != "swsh1" || f.Rows[1].Get("nr") != "7" {
		t.Fatalf("row values lost")
	}
	if notes := f.Rows[0].Notes(); len(notes) != 1 || notes[0] != "Reverse" {
		t.Fatalf("notes = %v", notes)
	}
	if notes := f.Rows[1].Notes(); len(notes) != 1 || notes[0] != "TG" {
		t.Fatalf("notes = %v", notes)
	}

	out := filepath.Join(t.TempDir(), "out.csv")
	if err := f.Write(out); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != in {
		t.Fatalf("round trip mismatch:\n%q\n%q", in, string(b))
	}
}

func TestReadBOMAndShortRows(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("set,nr,note1\nswsh1,25\n")...)
	f, err := Read(writeLedger(t, in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Header[0] != "set" {
		t.Fatalf("BOM not stripped: header %v", f.Header)
	}
	if f.Rows[0].Get("note1") != "" {
		t.Fatalf("short row should leave missing columns blank")
	}
}

func TestReadWindows1252Fallback(t *testing.T) {
	// 0xE9 is "é" in Windows-1252 and invalid UTF-8 on its own
	in := []byte("set,nr,note1\nswsh1,25,Pok\xe9mon\n")
	f, err := Read(writeLedger(t, in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := f.Rows[0].Get("note1"); got != "Pokémon" {
		t.Fatalf("note1 = %q", got)
	}
}

func TestAddColumn(t *testing.T) {
	f, err := Read(writeLedger(t, []byte("set,nr\nswsh1,25\n")))
	if err != nil {
		t.Fatal(err)
	}
	f.AddColumn("online_price")
	f.AddColumn("online_price") // idempotent
	if strings.Join(f.Header, ",") != "set,nr,online_price" {
		t.Fatalf("header = %v", f.Header)
	}
}

func TestReadEmptyFile(t *testing.T) {
	if _, err := Read(writeLedger(t, nil)); err == nil {
		t.Fatal("expected error for empty ledger")
	}
}
