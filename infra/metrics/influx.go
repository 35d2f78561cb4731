package metrics

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/resplan/core/metrics"
	"github.com/kilianp07/resplan/infra/logger"
)

// InfluxSink writes engine events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func (s *InfluxSink) write(points ...*write.Point) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordAnalysis writes one critical_path_analysis point.
func (s *InfluxSink) RecordAnalysis(ev coremetrics.AnalysisEvent) error {
	p := write.NewPointWithMeasurement("critical_path_analysis").
		AddTag("component", "cpm").
		AddField("tasks", ev.Tasks).
		AddField("critical_tasks", ev.CriticalTasks).
		AddField("duration_days", ev.DurationDays).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordConflicts writes one resource_conflict point per over-allocated
// day, timestamped with that day.
func (s *InfluxSink) RecordConflicts(evs []coremetrics.ConflictEvent) error {
	points := make([]*write.Point, 0, len(evs))
	for _, ev := range evs {
		points = append(points, write.NewPointWithMeasurement("resource_conflict").
			AddTag("resource_id", ev.ResourceID).
			AddTag("severity", ev.Severity).
			AddField("allocation_ratio", round3(ev.AllocationRatio)).
			AddField("tasks", ev.Tasks).
			SetTime(ev.Date))
	}
	return s.write(points...)
}

// RecordSchedule writes one schedule_run point.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	shifted := 0
	for _, d := range ev.ShiftDays {
		if d != 0 {
			shifted++
		}
	}
	p := write.NewPointWithMeasurement("schedule_run").
		AddTag("component", "leveling").
		AddField("tasks", ev.Tasks).
		AddField("unresolved", ev.Unresolved).
		AddField("shifted", shifted).
		AddField("makespan_days", ev.MakespanDays).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordUtilization writes one resource_utilization point per resource,
// timestamped with the end of the window.
func (s *InfluxSink) RecordUtilization(evs []coremetrics.UtilizationEvent) error {
	points := make([]*write.Point, 0, len(evs))
	for _, ev := range evs {
		points = append(points, write.NewPointWithMeasurement("resource_utilization").
			AddTag("resource_id", ev.ResourceID).
			AddField("rate_percent", round3(ev.Rate)).
			AddField("window_days", int(ev.To.Sub(ev.From).Hours()/24)+1).
			SetTime(ev.To))
	}
	return s.write(points...)
}

// RecordComparison writes one baseline_comparison point per status.
func (s *InfluxSink) RecordComparison(ev coremetrics.ComparisonEvent) error {
	statuses := make([]string, 0, len(ev.Statuses))
	for st := range ev.Statuses {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)
	points := make([]*write.Point, 0, len(statuses))
	for _, st := range statuses {
		points = append(points, write.NewPointWithMeasurement("baseline_comparison").
			AddTag("baseline_id", ev.BaselineID).
			AddTag("status", st).
			AddField("tasks", ev.Statuses[st]).
			SetTime(ev.Time))
	}
	return s.write(points...)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
