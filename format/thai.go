package format

import (
	"fmt"
	"strings"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
)

// ThaiGrammar renders verb-first phrases in the convention of Thai
// medication labels: "รับประทาน ครั้งละ 1 เม็ด วันละ 3 ครั้ง ก่อนอาหาร".
// Thai labels are already compact, so Short and Long render identically.
type ThaiGrammar struct{}

var thaiVerbs = map[string]string{
	terminology.RouteOral:         "รับประทาน",
	terminology.RouteSublingual:   "อมใต้ลิ้น",
	terminology.RouteBuccal:       "อมข้างกระพุ้งแก้ม",
	terminology.RouteRectal:       "เหน็บทวารหนัก",
	terminology.RouteVaginal:      "เหน็บช่องคลอด",
	terminology.RouteIM:           "ฉีดเข้ากล้ามเนื้อ",
	terminology.RouteIV:           "ฉีดเข้าหลอดเลือดดำ",
	terminology.RouteSubcut:       "ฉีดใต้ผิวหนัง",
	terminology.RouteTransdermal:  "แปะผิวหนัง",
	terminology.RouteInhalation:   "สูดพ่น",
	terminology.RouteNasal:        "พ่นจมูก",
	terminology.RouteOphthalmic:   "หยอดตา",
	terminology.RouteOtic:         "หยอดหู",
	terminology.RouteTopical:      "ทา",
	terminology.RouteIntravitreal: "ฉีดเข้าวุ้นตา",
	terminology.RouteGastrostomy:  "ให้ทางสายยาง",
}

var thaiUnits = map[string]string{
	"tablet":      "เม็ด",
	"capsule":     "แคปซูล",
	"drop":        "หยด",
	"mL":          "มิลลิลิตร",
	"teaspoon":    "ช้อนชา",
	"tablespoon":  "ช้อนโต๊ะ",
	"puff":        "ครั้ง",
	"spray":       "ครั้ง",
	"patch":       "แผ่น",
	"suppository": "แท่ง",
	"application": "ครั้ง",
	"unit":        "ยูนิต",
	"sachet":      "ซอง",
	"lozenge":     "เม็ด",
	"scoop":       "ช้อนตวง",
}

var thaiWhens = map[string]string{
	terminology.WhenAC:        "ก่อนอาหาร",
	terminology.WhenACM:       "ก่อนอาหารเช้า",
	terminology.WhenACD:       "ก่อนอาหารกลางวัน",
	terminology.WhenACV:       "ก่อนอาหารเย็น",
	terminology.WhenPC:        "หลังอาหาร",
	terminology.WhenPCM:       "หลังอาหารเช้า",
	terminology.WhenPCD:       "หลังอาหารกลางวัน",
	terminology.WhenPCV:       "หลังอาหารเย็น",
	terminology.WhenC:         "พร้อมอาหาร",
	terminology.WhenCM:        "พร้อมอาหารเช้า",
	terminology.WhenCD:        "พร้อมอาหารกลางวัน",
	terminology.WhenCV:        "พร้อมอาหารเย็น",
	terminology.WhenHS:        "ก่อนนอน",
	terminology.WhenMorn:      "ตอนเช้า",
	terminology.WhenNoon:      "ตอนเที่ยง",
	terminology.WhenAft:       "ตอนบ่าย",
	terminology.WhenEve:       "ตอนเย็น",
	terminology.WhenNight:     "ตอนกลางคืน",
	terminology.WhenWake:      "เมื่อตื่นนอน",
	terminology.WhenImmediate: "ทันที",
}

var thaiSites = map[string]string{
	terminology.SiteRightEye: "ข้างขวา",
	terminology.SiteLeftEye:  "ข้างซ้าย",
	terminology.SiteBothEyes: "ทั้งสองข้าง",
}

var thaiReasons = map[string]string{
	"pain":     "ปวด",
	"fever":    "ไข้",
	"nausea":   "คลื่นไส้",
	"insomnia": "นอนไม่หลับ",
	"anxiety":  "วิตกกังวล",
	"cough":    "ไอ",
	"itching":  "คัน",
}

var thaiDays = map[string]string{
	"mon": "วันจันทร์", "tue": "วันอังคาร", "wed": "วันพุธ", "thu": "วันพฤหัสบดี",
	"fri": "วันศุกร์", "sat": "วันเสาร์", "sun": "วันอาทิตย์",
}

var thaiTimeUnits = map[string]string{
	"min": "นาที", "h": "ชั่วโมง", "d": "วัน", "wk": "สัปดาห์", "mo": "เดือน",
}

func (ThaiGrammar) Render(s *sig.ParsedSig, _ Style) string {
	var parts []string

	verb := "ใช้ยา"
	if v, ok := thaiVerbs[s.RouteCode]; ok {
		verb = v
	}
	parts = append(parts, verb)

	if side, ok := thaiSites[s.SiteText]; ok {
		parts = append(parts, side)
	} else if s.SiteText != "" {
		parts = append(parts, s.SiteText)
	}

	if d := thaiDose(s); d != "" {
		parts = append(parts, d)
	}
	if cad := thaiCadence(s); cad != "" {
		parts = append(parts, cad)
	}
	for _, w := range s.When {
		if t, ok := thaiWhens[w]; ok {
			parts = append(parts, t)
		}
	}
	if len(s.DayOfWeek) > 0 {
		names := make([]string, 0, len(s.DayOfWeek))
		for _, d := range s.DayOfWeek {
			if n, ok := thaiDays[d]; ok {
				names = append(names, n)
			}
		}
		if len(names) > 0 {
			parts = append(parts, "ทุก"+strings.Join(names, " "))
		}
	}
	if s.AsNeeded {
		prn := "เมื่อมีอาการ"
		if s.Reason != "" {
			if r, ok := thaiReasons[strings.ToLower(s.Reason)]; ok {
				prn += r
			} else {
				prn += " " + s.Reason
			}
		}
		parts = append(parts, prn)
	}
	if s.Count != nil {
		parts = append(parts, fmt.Sprintf("จำนวน %d ครั้ง", *s.Count))
	}

	return strings.Join(parts, " ")
}

func thaiDose(s *sig.ParsedSig) string {
	unit := s.Unit
	if t, ok := thaiUnits[unit]; ok {
		unit = t
	}
	switch {
	case s.DoseLow != nil && s.DoseHigh != nil:
		return "ครั้งละ " + num(*s.DoseLow) + "-" + num(*s.DoseHigh) + " " + unit
	case s.DoseValue != nil:
		return "ครั้งละ " + num(*s.DoseValue) + " " + unit
	}
	return ""
}

func thaiCadence(s *sig.ParsedSig) string {
	switch {
	case s.Period != nil && s.PeriodUnit == "d" && *s.Period == 2:
		return "วันเว้นวัน"
	case s.Period != nil && s.PeriodUnit != "d":
		unit := s.PeriodUnit
		if t, ok := thaiTimeUnits[unit]; ok {
			unit = t
		}
		if s.Frequency != nil && *s.Frequency == 1 && *s.Period == 1 {
			return unit + "ละครั้ง"
		}
		return "ทุก " + num(*s.Period) + " " + unit
	case s.Frequency != nil:
		return fmt.Sprintf("วันละ %d ครั้ง", *s.Frequency)
	}
	return ""
}
