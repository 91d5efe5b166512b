package export

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"ns3-trace-analyzer/internal/trace"
)

// DefaultTable is the GreptimeDB table entries are written to.
const DefaultTable = "ns3_trace"

// DefaultGreptimeBatch caps the rows sent in one insert request.
const DefaultGreptimeBatch = 1000

type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes entries to GreptimeDB via the ingester client.
// Rows are timestamped at Base plus the entry's simulation time. Every row
// carries a per-writer sequence tag, so entries sharing a node, device,
// event and timestamp do not overwrite each other.
type GreptimeDBWriter struct {
	client    greptimeClient
	table     string
	runID     string
	base      time.Time
	batchSize int
	seq       int64
	logger    *slog.Logger
}

// GreptimeOptions configures NewGreptimeDBWriter.
type GreptimeOptions struct {
	Endpoint  string
	Port      int
	Database  string
	Table     string
	RunID     string
	Base      time.Time
	BatchSize int
	Logger    *slog.Logger
}

// NewGreptimeDBWriter connects to GreptimeDB. The table is created on first
// write by the server.
func NewGreptimeDBWriter(opts GreptimeOptions) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(opts.Endpoint)
	if opts.Port > 0 {
		cfg = cfg.WithPort(opts.Port)
	}
	if opts.Database != "" {
		cfg = cfg.WithDatabase(opts.Database)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return newGreptimeDBWriter(client, opts), nil
}

func newGreptimeDBWriter(client greptimeClient, opts GreptimeOptions) *GreptimeDBWriter {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if opts.Base.IsZero() {
		opts.Base = time.Now()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultGreptimeBatch
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &GreptimeDBWriter{
		client:    client,
		table:     opts.Table,
		runID:     opts.RunID,
		base:      opts.Base,
		batchSize: opts.BatchSize,
		logger:    opts.Logger.With("component", "greptime"),
	}
}

// Write inserts a single entry.
func (w *GreptimeDBWriter) Write(e trace.Entry) error {
	return w.WriteBatch([]trace.Entry{e})
}

// WriteBatch inserts entries in requests of at most BatchSize rows.
func (w *GreptimeDBWriter) WriteBatch(entries []trace.Entry) error {
	for len(entries) > 0 {
		n := min(len(entries), w.batchSize)
		if err := w.insert(entries[:n]); err != nil {
			return err
		}
		entries = entries[n:]
	}
	return nil
}

func (w *GreptimeDBWriter) insert(entries []trace.Entry) error {
	tbl, err := w.newTable()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := tbl.AddRow(w.rowValues(e, w.seq)...); err != nil {
			return fmt.Errorf("greptime row: %w", err)
		}
		w.seq++
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.logger.Error("write failed", "err", err)
		return err
	}
	w.logger.Debug("wrote rows", "rows", len(entries))
	return nil
}

func (w *GreptimeDBWriter) newTable() (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	tags := []struct {
		name string
		typ  types.ColumnType
	}{
		{"run_id", types.STRING},
		{"event_type", types.STRING},
		{"node", types.STRING},
		{"device", types.INT64},
		{"seq", types.INT64},
	}
	for _, t := range tags {
		if err := tbl.AddTagColumn(t.name, t.typ); err != nil {
			return nil, err
		}
	}
	fields := []struct {
		name string
		typ  types.ColumnType
	}{
		{"sim_time", types.FLOAT64},
		{"rate", types.STRING},
		{"src_ip", types.STRING},
		{"dst_ip", types.STRING},
		{"mac_header", types.STRING},
		{"llc_header", types.STRING},
		{"ipv4_header", types.STRING},
		{"udp_header", types.STRING},
		{"olsr_packet_header", types.STRING},
		{"olsr_message_header", types.STRING},
	}
	for _, f := range fields {
		if err := tbl.AddFieldColumn(f.name, f.typ); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_NANOSECOND); err != nil {
		return nil, err
	}
	return tbl, nil
}

// rowValues orders values like newTable's columns. Absent strings are empty,
// an absent device is -1 and an absent time is 0.
func (w *GreptimeDBWriter) rowValues(e trace.Entry, seq int64) []any {
	var simTime float64
	if e.Time != nil {
		simTime = *e.Time
	}
	node := ""
	if e.Node != nil {
		node = NodeLabel(*e.Node)
	}
	device := int64(-1)
	if e.Device != nil {
		device = int64(*e.Device)
	}
	event := ""
	if e.EventType != nil {
		event = EventLabel(*e.EventType)
	}
	ts := w.base.Add(time.Duration(math.Round(simTime * float64(time.Second))))
	return []any{
		w.runID, event, node, device, seq,
		simTime, str(e.Rate), str(e.SrcIP), str(e.DstIP),
		str(e.MacHeader), str(e.LlcHeader), str(e.Ipv4Header), str(e.UdpHeader),
		str(e.OlsrPacketHeader), str(e.OlsrMessageHeader),
		ts,
	}
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
