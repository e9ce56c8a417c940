/*
templates.go - Sample workbooks for each batch kind

PURPOSE:

	Gives HR staff a workbook they can fill in and upload unchanged. Each
	template carries the header the batch expects and a few sample rows
	that show the accepted date forms.

AVAILABLE TEMPLATES:

	promotion:  name, employee number, seniority date
	experience: name, hire date, end-of-service date (may be blank)

DATE FORMS SHOWN:
 1. Native Excel date
 2. DD/MM/YYYY text
 3. ISO YYYY-MM-DD text
 4. Two-digit year text (DD/MM/YY)

USAGE VIA API:

	GET /api/templates             list templates
	GET /api/templates/promotion   download promotion template

SEE ALSO:
  - handlers.go: ListTemplates, GetTemplate handlers
  - batch/: Column expectations
*/
package api

import (
	"time"

	"github.com/warp/seniority-engine/batch"
	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/sheet"
)

// =============================================================================
// TEMPLATE DEFINITIONS
// =============================================================================

type template struct {
	Kind        batch.Kind
	FileName    string
	Description string
	build       func() *sheet.Table
}

var templates = []template{
	{
		Kind:        batch.KindPromotion,
		FileName:    "قالب_الترقيات.xlsx",
		Description: "Seniority dates; the column whose header contains تاريخ is used",
		build:       promotionTemplate,
	},
	{
		Kind:        batch.KindExperience,
		FileName:    "قالب_الخبرة.xlsx",
		Description: "Hire and end-of-service dates; leave the end date blank for current staff",
		build:       experienceTemplate,
	},
}

func findTemplate(kind string) (template, bool) {
	for _, t := range templates {
		if string(t.Kind) == kind {
			return t, true
		}
	}
	return template{}, false
}

// =============================================================================
// TEMPLATE BUILDERS
// =============================================================================

func promotionTemplate() *sheet.Table {
	return &sheet.Table{
		SheetName: "الموظفون",
		Header:    []string{"الاسم", "الرقم الوظيفي", "تاريخ الأقدمية"},
		Rows: [][]calendar.Cell{
			{calendar.TextCell("أحمد علي"), calendar.NumberCell(1001), calendar.DateCell(calendar.NewDate(2021, time.March, 15))},
			{calendar.TextCell("سارة محمد"), calendar.NumberCell(1002), calendar.TextCell("01/09/2019")},
			{calendar.TextCell("خالد حسن"), calendar.NumberCell(1003), calendar.TextCell("2020-08-31")},
			{calendar.TextCell("منى سعيد"), calendar.NumberCell(1004), calendar.TextCell("15/06/22")},
		},
	}
}

func experienceTemplate() *sheet.Table {
	return &sheet.Table{
		SheetName: "الموظفون",
		Header:    []string{"الاسم", "تاريخ التعيين", "تاريخ انتهاء الخدمة"},
		Rows: [][]calendar.Cell{
			{calendar.TextCell("أحمد علي"), calendar.DateCell(calendar.NewDate(2015, time.January, 31)), calendar.TextCell("2023-03-01")},
			{calendar.TextCell("سارة محمد"), calendar.TextCell("01/02/2019"), calendar.EmptyCell()},
			{calendar.TextCell("خالد حسن"), calendar.TextCell("10/10/98"), calendar.TextCell("30/06/2020")},
		},
	}
}
