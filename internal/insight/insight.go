// Package insight derives simple heuristic observations from aggregated
// consumption history: consumption spikes, usage patterns, top consumers,
// savings estimates and carbon footprint.
package insight

import (
	"fmt"

	"energytracker/pkg/models"
)

// CO2PerKWh is the grid carbon intensity used for footprint estimates,
// in kg CO2 per kWh.
const CO2PerKWh = 0.82

// Insight is one generated observation, ready for display.
type Insight struct {
	Type     string `json:"type"`     // alert, warning, success, info, tip
	Priority string `json:"priority"` // high, medium, low
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// Generate builds insights from an ascending-by-date daily series and the
// per-appliance rollup. With no history it returns an empty list.
func Generate(days []models.DailyRecord, appliances []models.ApplianceSummary, tariffRate float64) []Insight {
	var insights []Insight
	if len(days) == 0 {
		return insights
	}

	// Statistics over the trailing week, most recent day last.
	recent := days
	if len(days) > 7 {
		recent = days[len(days)-7:]
	}
	var sum float64
	for _, d := range recent {
		sum += d.TotalEnergy
	}
	avg := sum / float64(len(recent))
	today := days[len(days)-1].TotalEnergy

	if today > avg*1.3 {
		insights = append(insights, Insight{
			Type:     "alert",
			Priority: "high",
			Title:    "High Consumption Alert",
			Text:     fmt.Sprintf("Your consumption today (%.2f kWh) is 30%% higher than your weekly average. Check for appliances left on.", today),
		})
	}
	if today < avg*0.8 {
		insights = append(insights, Insight{
			Type:     "success",
			Priority: "medium",
			Title:    "Great Job!",
			Text:     fmt.Sprintf("Your consumption today (%.2f kWh) is 20%% lower than your average. Keep it up!", today),
		})
	}

	insights = append(insights, applianceInsights(appliances)...)
	insights = append(insights, weekendInsight(days)...)
	insights = append(insights, trendInsight(days)...)

	// Savings estimate over a 30-day month.
	savings15 := avg * 0.15 * tariffRate * 30
	savings25 := avg * 0.25 * tariffRate * 30
	insights = append(insights, Insight{
		Type:     "success",
		Priority: "high",
		Title:    "Savings Opportunity",
		Text:     fmt.Sprintf("By reducing consumption by 15%%, you could save %.2f/month. A 25%% reduction could save %.2f/month!", savings15, savings25),
	})

	carbon := avg * 30 * CO2PerKWh
	insights = append(insights, Insight{
		Type:     "info",
		Priority: "medium",
		Title:    "Environmental Impact",
		Text:     fmt.Sprintf("Your monthly carbon footprint is ~%.1f kg CO2. That's equivalent to planting %.1f trees to offset!", carbon, carbon/20),
	})

	return insights
}

// applianceInsights flags the top consumer and, with enough appliances,
// how concentrated usage is in the top three.
func applianceInsights(appliances []models.ApplianceSummary) []Insight {
	var insights []Insight
	if len(appliances) == 0 {
		return insights
	}

	top := appliances[0]
	insights = append(insights, Insight{
		Type:     "tip",
		Priority: "high",
		Title:    "Top Energy Consumer",
		Text:     fmt.Sprintf("%s is your highest energy consumer (%.1f kWh, %.2f). Consider upgrading to energy-efficient models.", top.Appliance, top.TotalEnergy, top.TotalCost),
	})

	if len(appliances) >= 3 {
		var top3, total float64
		for i, a := range appliances {
			total += a.TotalEnergy
			if i < 3 {
				top3 += a.TotalEnergy
			}
		}
		if total > 0 {
			insights = append(insights, Insight{
				Type:     "info",
				Priority: "medium",
				Title:    "Appliance Usage Pattern",
				Text:     fmt.Sprintf("Your top 3 appliances consume %.0f%% of your total energy. Optimizing these can significantly reduce your bill.", top3/total*100),
			})
		}
	}

	return insights
}

// weekendInsight compares weekend and weekday averages once two weeks of
// history exist.
func weekendInsight(days []models.DailyRecord) []Insight {
	var insights []Insight
	if len(days) < 14 {
		return insights
	}

	var weekdaySum, weekendSum float64
	var weekdayN, weekendN int
	for _, d := range days {
		if d.IsWeekend {
			weekendSum += d.TotalEnergy
			weekendN++
		} else {
			weekdaySum += d.TotalEnergy
			weekdayN++
		}
	}
	if weekdayN == 0 || weekendN == 0 {
		return insights
	}

	weekdayAvg := weekdaySum / float64(weekdayN)
	weekendAvg := weekendSum / float64(weekendN)

	switch {
	case weekendAvg > weekdayAvg*1.2:
		diff := (weekendAvg/weekdayAvg - 1) * 100
		insights = append(insights, Insight{
			Type:     "info",
			Priority: "low",
			Title:    "Weekend Usage Pattern",
			Text:     fmt.Sprintf("Your weekend consumption (%.1f kWh) is %.0f%% higher than weekdays (%.1f kWh). More people at home?", weekendAvg, diff, weekdayAvg),
		})
	case weekdayAvg > weekendAvg*1.2:
		diff := (weekdayAvg/weekendAvg - 1) * 100
		insights = append(insights, Insight{
			Type:     "info",
			Priority: "low",
			Title:    "Weekday Usage Pattern",
			Text:     fmt.Sprintf("Your weekday consumption (%.1f kWh) is %.0f%% higher than weekends. Consider reducing daytime appliance usage.", weekdayAvg, diff),
		})
	}

	return insights
}

// trendInsight compares the last 3 days against the 4 before them.
func trendInsight(days []models.DailyRecord) []Insight {
	var insights []Insight
	if len(days) < 7 {
		return insights
	}

	tail := days[len(days)-7:]
	var earlier, recent float64
	for i, d := range tail {
		if i < 4 {
			earlier += d.TotalEnergy
		} else {
			recent += d.TotalEnergy
		}
	}
	earlier /= 4
	recent /= 3

	switch {
	case recent > earlier*1.15:
		insights = append(insights, Insight{
			Type:     "warning",
			Priority: "high",
			Title:    "Increasing Trend Detected",
			Text:     fmt.Sprintf("Your consumption is increasing. Recent average: %.1f kWh vs earlier: %.1f kWh. Monitor your usage closely.", recent, earlier),
		})
	case recent < earlier*0.85:
		insights = append(insights, Insight{
			Type:     "success",
			Priority: "medium",
			Title:    "Decreasing Trend - Excellent!",
			Text:     fmt.Sprintf("Your consumption is decreasing! Recent average: %.1f kWh vs earlier: %.1f kWh. Great progress!", recent, earlier),
		})
	}

	return insights
}
