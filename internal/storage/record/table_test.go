package record

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/louisbranch/sqlib/internal/game/identifier"
	"github.com/louisbranch/sqlib/internal/game/nbt"
	"github.com/louisbranch/sqlib/internal/game/pos"
	"github.com/louisbranch/sqlib/internal/game/text"
	apperrors "github.com/louisbranch/sqlib/internal/platform/errors"
	"github.com/louisbranch/sqlib/internal/storage/sqlconn"
	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

func openTempTable(t *testing.T, idType sqlconn.ColumnType) *Table {
	t.Helper()

	path := filepath.Join(t.TempDir(), "record.db")
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema, err := sqlconn.NewTable("homes", idType,
		sqlconn.Column{Name: "name", Type: sqlconn.Text},
		sqlconn.Column{Name: "visits", Type: sqlconn.Int},
		sqlconn.Column{Name: "xp", Type: sqlconn.Long},
		sqlconn.Column{Name: "yaw", Type: sqlconn.Double},
		sqlconn.Column{Name: "public", Type: sqlconn.Int},
		sqlconn.Column{Name: "spawn", Type: sqlconn.Long},
		sqlconn.Column{Name: "claim", Type: sqlconn.Long},
		sqlconn.Column{Name: "meta", Type: sqlconn.Text},
		sqlconn.Column{Name: "chest", Type: sqlconn.Text},
		sqlconn.Column{Name: "sign", Type: sqlconn.Text},
		sqlconn.Column{Name: "owner", Type: sqlconn.Text},
		sqlconn.Column{Name: "dimension", Type: sqlconn.Text},
	)
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	conn := sqlconn.New(db, sqlconn.SQLite)
	if err := conn.EnsureTable(context.Background(), schema); err != nil {
		t.Fatalf("ensure table: %v", err)
	}
	return NewTable(schema, conn, nil)
}

func TestSQLiteRoundTripEveryType(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := openTempTable(t, sqlconn.Text)
	c, err := table.Create(ctx, "home-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	block := pos.NewBlockPos(-120, 64, 3512)
	chunk := block.Chunk()
	tag := nbt.Compound{"Items": nbt.List{nbt.Compound{"Slot": nbt.Byte(0), "id": nbt.String("minecraft:apple")}}}
	sign := text.Translatable("sign.edited", text.Literal("Alex"))
	owner := uuid.New()
	dim := identifier.MustParse("the_end")

	puts := []error{
		c.PutString(ctx, "name", "Cottage"),
		c.PutInt(ctx, "visits", 12),
		c.PutLong(ctx, "xp", 7),
		c.PutDouble(ctx, "yaw", -90.5),
		c.PutBool(ctx, "public", true),
		c.PutBlockPos(ctx, "spawn", block),
		c.PutChunkPos(ctx, "claim", chunk),
		c.PutJSON(ctx, "meta", gjson.Parse(`{"tags": ["cozy", "north"]}`)),
		c.PutNBT(ctx, "chest", tag),
		c.PutText(ctx, "sign", sign),
		c.PutUUID(ctx, "owner", owner),
		c.PutIdentifier(ctx, "dimension", dim),
	}
	for i, err := range puts {
		if err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}

	if got, ok, err := c.GetString(ctx, "name"); err != nil || !ok || got != "Cottage" {
		t.Fatalf("name = %q, %v, %v", got, ok, err)
	}
	if got, ok, err := c.GetInt(ctx, "visits"); err != nil || !ok || got != 12 {
		t.Fatalf("visits = %d, %v, %v", got, ok, err)
	}
	if got, ok, err := c.GetLong(ctx, "xp"); err != nil || !ok || got != 7 {
		t.Fatalf("xp = %d, %v, %v", got, ok, err)
	}
	if got, ok, err := c.GetDouble(ctx, "yaw"); err != nil || !ok || got != -90.5 {
		t.Fatalf("yaw = %v, %v, %v", got, ok, err)
	}
	if got, ok, err := c.GetBool(ctx, "public"); err != nil || !ok || !got {
		t.Fatalf("public = %v, %v, %v", got, ok, err)
	}
	if got, ok, err := c.GetBlockPos(ctx, "spawn"); err != nil || !ok || got != block {
		t.Fatalf("spawn = %v, %v, %v", got, ok, err)
	}
	if got, ok, err := c.GetChunkPos(ctx, "claim"); err != nil || !ok || got != chunk {
		t.Fatalf("claim = %v, %v, %v", got, ok, err)
	}
	meta, ok, err := c.GetJSON(ctx, "meta")
	if err != nil || !ok || meta.Raw != `{"tags":["cozy","north"]}` {
		t.Fatalf("meta = %q, %v, %v", meta.Raw, ok, err)
	}
	gotTag, ok, err := c.GetNBT(ctx, "chest")
	if err != nil || !ok || !reflect.DeepEqual(gotTag, nbt.Tag(tag)) {
		t.Fatalf("chest = %v, %v, %v", gotTag, ok, err)
	}
	gotSign, ok, err := c.GetText(ctx, "sign")
	if err != nil || !ok || !reflect.DeepEqual(gotSign, sign) {
		t.Fatalf("sign = %#v, %v, %v", gotSign, ok, err)
	}
	if got, ok, err := c.GetUUID(ctx, "owner"); err != nil || !ok || got != owner {
		t.Fatalf("owner = %v, %v, %v", got, ok, err)
	}
	if got, ok, err := c.GetIdentifier(ctx, "dimension"); err != nil || !ok || got != dim {
		t.Fatalf("dimension = %v, %v, %v", got, ok, err)
	}
}

func TestSQLiteLongExtremesAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := openTempTable(t, sqlconn.Long)
	c := table.Container("42")

	for _, n := range []int64{1, -1, math.MaxInt32, math.MinInt64, math.MaxInt64} {
		if err := c.PutLong(ctx, "xp", n); err != nil {
			t.Fatalf("put %d: %v", n, err)
		}
		if got, ok, err := c.GetLong(ctx, "xp"); err != nil || !ok || got != n {
			t.Fatalf("xp = %d, %v, %v; want %d", got, ok, err, n)
		}
	}

	if err := c.Clear(ctx, "xp"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, err := c.GetLong(ctx, "xp"); err != nil || ok {
		t.Fatalf("xp after clear = %v, %v; want no value", ok, err)
	}
	if _, ok, err := c.GetBool(ctx, "public"); err != nil || ok {
		t.Fatalf("public never written = %v, %v; want no value", ok, err)
	}
	if got, err := c.IDInt(); err != nil || got != 42 {
		t.Fatalf("IDInt = %d, %v", got, err)
	}
}

func TestSQLiteMalformedStoredText(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := openTempTable(t, sqlconn.Text)
	c := table.Container("home-1")

	if err := c.PutString(ctx, "chest", "{Items:[1,2b]}"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, err := c.GetNBT(ctx, "chest"); err != nil || ok {
		t.Fatalf("malformed nbt = %v, %v; want no value", ok, err)
	}
	if err := c.PutString(ctx, "owner", "steve"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, _, err := c.GetUUID(ctx, "owner"); !apperrors.HasCode(err, apperrors.CodeFormat) {
		t.Fatalf("malformed uuid = %v, want %s", err, apperrors.CodeFormat)
	}
}

func TestTableRowLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := openTempTable(t, sqlconn.Text)

	if _, err := table.Get(ctx, "missing"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("get missing = %v, want %s", err, apperrors.CodeNotFound)
	}
	if _, err := table.Create(ctx, ""); !apperrors.HasCode(err, apperrors.CodeIDFormat) {
		t.Fatalf("create empty id = %v, want %s", err, apperrors.CodeIDFormat)
	}

	created, err := table.CreateUUID(ctx)
	if err != nil {
		t.Fatalf("create uuid: %v", err)
	}
	if _, err := created.IDUUID(); err != nil {
		t.Fatalf("created id is not a uuid: %v", err)
	}
	if _, err := table.Create(ctx, "b"); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if _, err := table.Create(ctx, "b"); err != nil {
		t.Fatalf("create b again: %v", err)
	}

	got, err := table.Get(ctx, "b")
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if got.IDString() != "b" || got.Table().Name != table.Name() {
		t.Fatalf("get b = %q in %q", got.IDString(), got.Table().Name)
	}

	ids, err := table.IDs(ctx)
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want 2 rows", ids)
	}
	containers, err := table.Containers(ctx)
	if err != nil {
		t.Fatalf("containers: %v", err)
	}
	if len(containers) != 2 {
		t.Fatalf("containers = %d, want 2", len(containers))
	}

	if err := table.Delete(ctx, "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := table.Delete(ctx, "b"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("delete again = %v, want %s", err, apperrors.CodeNotFound)
	}
	exists, err := table.Exists(ctx, "b")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected b to be deleted")
	}
}

func TestTablePage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := openTempTable(t, sqlconn.Long)
	for i := 1; i <= 5; i++ {
		if _, err := table.Create(ctx, strconv.Itoa(i*10)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	var got []string
	token := ""
	pages := 0
	for {
		page, err := table.Page(ctx, 2, token)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		got = append(got, page.IDs...)
		pages++
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	if want := []string{"10", "20", "30", "40", "50"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("paged ids = %v, want %v", got, want)
	}
	if pages != 3 {
		t.Fatalf("pages = %d, want 3", pages)
	}

	all, err := table.Page(ctx, 0, "")
	if err != nil {
		t.Fatalf("default page: %v", err)
	}
	if len(all.IDs) != 5 || all.NextPageToken != "" {
		t.Fatalf("default page = %v, %q", all.IDs, all.NextPageToken)
	}
}

func TestTablePageRejectsForeignTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := openTempTable(t, sqlconn.Text)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := table.Create(ctx, id); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	page, err := table.Page(ctx, 1, "")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.NextPageToken == "" {
		t.Fatal("expected a next page token")
	}

	other := openTempTable(t, sqlconn.Long)
	if _, err := other.Page(ctx, 1, page.NextPageToken); !apperrors.HasCode(err, apperrors.CodePageToken) {
		t.Fatalf("foreign token = %v, want %s", err, apperrors.CodePageToken)
	}
	if _, err := table.Page(ctx, 1, "garbage"); !apperrors.HasCode(err, apperrors.CodePageToken) {
		t.Fatalf("garbage token = %v, want %s", err, apperrors.CodePageToken)
	}
}

func TestTablePageSkipsEmptyIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	table := openTempTable(t, sqlconn.Text)
	if err := table.Container("").PutString(ctx, "name", "nobody"); !apperrors.HasCode(err, apperrors.CodeIDFormat) {
		t.Fatalf("put on empty id = %v, want %s", err, apperrors.CodeIDFormat)
	}
	for _, id := range []string{"a", "b"} {
		if err := table.Container(id).PutString(ctx, "name", id); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	var got []string
	token := ""
	for {
		page, err := table.Page(ctx, 1, token)
		if err != nil {
			t.Fatalf("page after %q: %v", token, err)
		}
		got = append(got, page.IDs...)
		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("paged ids = %v, want %v", got, want)
	}
}
