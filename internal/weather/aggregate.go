package weather

// AggregateDaily reduces one city's same-day summaries into a single
// daily-aggregate record.
//
// Every row contributes its AvgTemp to the mean; the fetch path collapses a
// day's fetches into one raw row, so the set is often a single record.
// MaxTemp/MinTemp are reduced only over rows where those fields are
// meaningful (anything but raw_fetch), so the zero placeholders of raw rows
// never leak into the extremes; if no row qualifies, both stay 0. The
// dominant condition is the most frequent non-empty label, first encountered
// winning ties, or ConditionUnknown when no label is countable.
func AggregateDaily(city string, day Date, rows []Summary) Summary {
	agg := Summary{
		City:              city,
		Date:              day,
		DominantCondition: ConditionUnknown,
		Kind:              KindDailyAggregate,
	}
	if len(rows) == 0 {
		return agg
	}

	var sumAvg float64
	var haveExtremes bool
	counts := make(map[string]int)
	var order []string

	for _, r := range rows {
		sumAvg += r.AvgTemp

		if r.Kind != KindRawFetch {
			if !haveExtremes {
				agg.MaxTemp, agg.MinTemp = r.MaxTemp, r.MinTemp
				haveExtremes = true
			} else {
				if r.MaxTemp > agg.MaxTemp {
					agg.MaxTemp = r.MaxTemp
				}
				if r.MinTemp < agg.MinTemp {
					agg.MinTemp = r.MinTemp
				}
			}
		}

		if r.DominantCondition != "" {
			if counts[r.DominantCondition] == 0 {
				order = append(order, r.DominantCondition)
			}
			counts[r.DominantCondition]++
		}
	}

	agg.AvgTemp = sumAvg / float64(len(rows))

	best := 0
	for _, label := range order {
		if counts[label] > best {
			best = counts[label]
			agg.DominantCondition = label
		}
	}

	return agg
}
