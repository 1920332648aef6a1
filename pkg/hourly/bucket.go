// Package hourly provides bucket math for the one-hour granularity the fill
// cache is keyed on. Timestamps are seconds since epoch.
package hourly

// BucketSeconds is the width of a bucket.
const BucketSeconds int64 = 3600

// BucketStart floors a timestamp down to the start of its hour.
func BucketStart(ts int64) int64 {
	return ts - ts%BucketSeconds
}

// BucketRange returns the half-open range [start, end) covered by the bucket
// that hourKey identifies.
func BucketRange(hourKey int64) (start, end int64) {
	return hourKey, hourKey + BucketSeconds
}

// Contains reports whether ts falls inside the bucket identified by hourKey.
func Contains(hourKey, ts int64) bool {
	return ts >= hourKey && ts < hourKey+BucketSeconds
}

// CoveringKeys returns the minimal set of bucket keys whose ranges cover the
// query window (start, end]. A window no wider than one hour touches either a
// single bucket or two adjacent ones.
func CoveringKeys(start, end int64) []int64 {
	startHour := BucketStart(start)
	endHour := BucketStart(end)

	if startHour == endHour {
		return []int64{startHour}
	}
	return []int64{startHour, endHour}
}
