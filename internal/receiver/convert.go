package receiver

import (
	"strconv"
	"time"

	"github.com/roitop/roitop/internal/collector"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
)

// resourceInfo is what the receiver extracts from an OTLP resource block:
// the session identity, attributes shared by every data point under the
// resource, and slow-changing session metadata.
type resourceInfo struct {
	sessionID string
	shared    map[string]string
	meta      collector.SessionMetadata
	hasMeta   bool
}

func resourceInfoFrom(res *resourcepb.Resource) resourceInfo {
	var info resourceInfo
	if res == nil {
		return info
	}

	for _, kv := range res.Attributes {
		val := anyValueString(kv.Value)
		switch kv.Key {
		case "session.id":
			info.sessionID = val
		case "editor.type", "workspace.path", "model":
			if info.shared == nil {
				info.shared = make(map[string]string)
			}
			info.shared[kv.Key] = val
		case "plugin.version":
			info.meta.PluginVersion = val
			info.hasMeta = true
		case "editor.version":
			info.meta.EditorVersion = val
			info.hasMeta = true
		case "os.type":
			info.meta.OSType = val
			info.hasMeta = true
		case "host.arch":
			info.meta.HostArch = val
			info.hasMeta = true
		}
	}
	return info
}

// mergeAttrs overlays point-level attributes onto the resource-shared
// ones. Point attributes win on conflict.
func (ri resourceInfo) mergeAttrs(point []*commonpb.KeyValue) map[string]string {
	if len(ri.shared) == 0 && len(point) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(ri.shared)+len(point))
	for k, v := range ri.shared {
		attrs[k] = v
	}
	for _, kv := range point {
		attrs[kv.Key] = anyValueString(kv.Value)
	}
	return attrs
}

func anyValueString(v *commonpb.AnyValue) string {
	if v == nil {
		return ""
	}
	switch val := v.Value.(type) {
	case *commonpb.AnyValue_StringValue:
		return val.StringValue
	case *commonpb.AnyValue_IntValue:
		return strconv.FormatInt(val.IntValue, 10)
	case *commonpb.AnyValue_DoubleValue:
		return strconv.FormatFloat(val.DoubleValue, 'f', -1, 64)
	case *commonpb.AnyValue_BoolValue:
		return strconv.FormatBool(val.BoolValue)
	default:
		return ""
	}
}

func timestampFromNanos(nanos uint64) time.Time {
	if nanos == 0 {
		return time.Now()
	}
	return time.Unix(0, int64(nanos))
}

// processResourceMetrics converts an OTLP metrics payload into collector
// metrics and indexes them by session.
func processResourceMetrics(store collector.Store, logger Logger, rms []*metricspb.ResourceMetrics) {
	for _, rm := range rms {
		info := resourceInfoFrom(rm.Resource)

		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				for _, dp := range numberDataPoints(m) {
					metric := collector.Metric{
						Name:       m.Name,
						Value:      dataPointValue(dp),
						Attributes: info.mergeAttrs(dp.Attributes),
						Timestamp:  timestampFromNanos(dp.TimeUnixNano),
					}
					store.AddMetric(info.sessionID, metric)
					logger.LogMetric(info.sessionID, metric)
				}
			}
		}

		if info.hasMeta {
			store.UpdateMetadata(info.sessionID, info.meta)
		}
	}
}

func numberDataPoints(m *metricspb.Metric) []*metricspb.NumberDataPoint {
	switch data := m.Data.(type) {
	case *metricspb.Metric_Sum:
		if data.Sum != nil {
			return data.Sum.DataPoints
		}
	case *metricspb.Metric_Gauge:
		if data.Gauge != nil {
			return data.Gauge.DataPoints
		}
	}
	return nil
}

func dataPointValue(dp *metricspb.NumberDataPoint) float64 {
	switch v := dp.Value.(type) {
	case *metricspb.NumberDataPoint_AsDouble:
		return v.AsDouble
	case *metricspb.NumberDataPoint_AsInt:
		return float64(v.AsInt)
	default:
		return 0
	}
}

// processResourceLogs converts an OTLP logs payload into collector
// events. A session_end event additionally marks the session exited.
func processResourceLogs(store collector.Store, logger Logger, rls []*logspb.ResourceLogs) {
	for _, rl := range rls {
		info := resourceInfoFrom(rl.Resource)

		for _, sl := range rl.ScopeLogs {
			for _, lr := range sl.LogRecords {
				name := lr.EventName
				if name == "" {
					name = anyValueString(lr.Body)
				}
				event := collector.Event{
					Name:       name,
					Attributes: info.mergeAttrs(lr.Attributes),
					Timestamp:  timestampFromNanos(lr.TimeUnixNano),
				}
				store.AddEvent(info.sessionID, event)
				logger.LogEvent(info.sessionID, event)

				if name == "ai_assist.session_end" {
					store.MarkExited(info.sessionID)
				}
			}
		}

		if info.hasMeta {
			store.UpdateMetadata(info.sessionID, info.meta)
		}
	}
}
