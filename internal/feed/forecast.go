package feed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/common"
	"github.com/jozwang/SalterWaterRiver-weather-forecast/internal/weather"
)

var (
	issueLineRe = regexp.MustCompile(`Issued at\s+(?:(\d{1,2}):(\d{2})\s*(am|pm)\s+\S+\s+)?on\s+(\w+ \d{1,2} \w+ \d{4})`)
	sectionRe   = regexp.MustCompile(`(?m)^Forecast for (?:the rest of )?\w+.*$`)

	minTempRe    = regexp.MustCompile(`Minimum\s+(-?\d+)`)
	maxTempRe    = regexp.MustCompile(`Maximum\s+(-?\d+)`)
	rainChanceRe = regexp.MustCompile(`Chance of any rain:\s*(\d+)\s*%`)
	rainAmountRe = regexp.MustCompile(`Possible rainfall:\s*(.+)`)
)

// ParseForecast normalizes the précis forecast text product into one
// record per day section. The payload must carry an "Issued at ... on
// <date>" line; without it the whole batch fails. An individual day
// section that cannot be normalized is skipped and reported in the
// returned reasons, not fatal to the batch.
//
// valid_date is derived as issue date plus section ordinal: day sections
// are published in day order starting with the issue day ("the rest of"
// section), and the feed re-issues with shifting period boundaries, so
// the ordinal is the stable axis.
func ParseForecast(raw []byte, areaID string, now time.Time) ([]weather.ForecastRecord, []string, error) {
	text := string(raw)

	m := issueLineRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nil, &weather.ParseError{
			Product: weather.ProductForecast,
			Section: "header",
			Err:     fmt.Errorf("no issue date line found"),
		}
	}

	issuedAt, err := parseIssueTimestamp(m)
	if err != nil {
		return nil, nil, &weather.ParseError{
			Product: weather.ProductForecast,
			Section: "header",
			Err:     err,
		}
	}
	baseDate := common.DayOf(issuedAt)

	headers := sectionRe.FindAllStringIndex(text, -1)
	if len(headers) == 0 {
		return nil, nil, &weather.ParseError{
			Product: weather.ProductForecast,
			Section: "body",
			Err:     fmt.Errorf("no day sections found"),
		}
	}

	var records []weather.ForecastRecord
	var skipped []string

	for i, h := range headers {
		start := h[1]
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		section := text[start:end]

		rec, err := parseDaySection(section, areaID, baseDate, i, issuedAt, now)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("period %d: %v", i, err))
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

// parseIssueTimestamp builds the issuance time from the matched issue
// line. The feed abbreviates September as "Sept", which the reference
// layout does not accept.
func parseIssueTimestamp(m []string) (time.Time, error) {
	dateStr := strings.Replace(m[4], "Sept ", "September ", 1)
	day, err := time.Parse("Monday 2 January 2006", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad issue date %q: %w", m[4], err)
	}

	if m[1] == "" {
		return day, nil
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if m[3] == "pm" && hour != 12 {
		hour += 12
	}
	if m[3] == "am" && hour == 12 {
		hour = 0
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

func parseDaySection(section, areaID string, baseDate time.Time, index int, issuedAt, now time.Time) (weather.ForecastRecord, error) {
	rec := weather.ForecastRecord{
		StationID:   areaID,
		ValidDate:   baseDate.AddDate(0, 0, index),
		PeriodIndex: index,
		IssuedAt:    issuedAt,
		FetchedAt:   now,
	}

	// A temperature keyword with an unparseable value marks the section
	// malformed rather than merely sparse.
	if common.HasAny(section, "Minimum") {
		m := minTempRe.FindStringSubmatch(section)
		if m == nil {
			return rec, fmt.Errorf("unreadable minimum temperature")
		}
		v, _ := strconv.Atoi(m[1])
		rec.MinTemp = &v
	}
	if common.HasAny(section, "Maximum") {
		m := maxTempRe.FindStringSubmatch(section)
		if m == nil {
			return rec, fmt.Errorf("unreadable maximum temperature")
		}
		v, _ := strconv.Atoi(m[1])
		rec.MaxTemp = &v
	}

	if m := rainChanceRe.FindStringSubmatch(section); m != nil {
		v, _ := strconv.Atoi(m[1])
		rec.RainChancePct = &v
	}
	if m := rainAmountRe.FindStringSubmatch(section); m != nil {
		s := strings.TrimSpace(m[1])
		rec.RainAmountRange = &s
	}

	if s := summaryLine(section); s != "" {
		rec.Summary = &s
	}

	if rec.Summary == nil && rec.MinTemp == nil && rec.MaxTemp == nil &&
		rec.RainChancePct == nil && rec.RainAmountRange == nil {
		return rec, fmt.Errorf("empty section")
	}

	return rec, nil
}

// summaryLine returns the first non-empty line that is not one of the
// structured field lines.
func summaryLine(section string) string {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if common.HasAny(line, "Minimum", "Maximum", "Chance of any rain", "Possible rainfall") {
			continue
		}
		return line
	}
	return ""
}
