// Package report renders a completed maintenance record as the statutory
// 特定整備記録簿 spreadsheet handed to the customer.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/photos"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "整備記録簿"
	title     = "特定整備記録簿（1年定期点検整備用）"
)

// Options selects the optional blocks of the exported report.
type Options struct {
	Photos       bool
	Measurements bool
	QR           bool
	Legend       bool
	RowsPerSheet int
}

// DefaultOptions enables everything.
func DefaultOptions() Options {
	return Options{Photos: true, Measurements: true, QR: true, Legend: true}
}

// Filename derives the download name from the vehicle registration and the
// inspection date, falling back to today when the date is unset.
func Filename(row *models.MaintenanceRecord) string {
	date := row.InspectionDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	compact := ""
	for _, r := range date {
		if r >= '0' && r <= '9' {
			compact += string(r)
		}
	}
	reg := row.RegistrationNumber
	if reg == "" {
		reg = "未登録"
	}
	return fmt.Sprintf("整備記録_%s_%s.xlsx", reg, compact)
}

// Build renders the record's view tree into a workbook.
func Build(row *models.MaintenanceRecord, tree *inspection.ViewTree, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 24)
	f.SetColWidth(sheetName, "D", "D", 20)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, err
	}

	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellValue(sheetName, "A1", title)
	f.SetCellStyle(sheetName, "A1", "D1", titleStyle)

	rowNo := 3
	rowNo = writeVehicleBlock(f, row, rowNo)
	rowNo++

	rowNo = writeSectionBlock(f, tree, headerStyle, rowNo)

	if len(tree.Parts) > 0 {
		rowNo++
		rowNo = writePartsBlock(f, tree, headerStyle, rowNo)
	}

	if opts.Measurements && len(tree.Measurements) > 0 {
		rowNo++
		rowNo = writeMeasurementsBlock(f, tree, headerStyle, rowNo)
	}

	if tree.Advice != "" {
		rowNo++
		f.SetCellValue(sheetName, cell("A", rowNo), "アドバイス")
		f.SetCellStyle(sheetName, cell("A", rowNo), cell("A", rowNo), headerStyle)
		rowNo++
		f.MergeCell(sheetName, cell("A", rowNo), cell("D", rowNo))
		f.SetCellValue(sheetName, cell("A", rowNo), tree.Advice)
		rowNo++
	}

	if opts.Legend {
		rowNo++
		f.MergeCell(sheetName, cell("A", rowNo), cell("D", rowNo))
		f.SetCellValue(sheetName, cell("A", rowNo), catalog.Legend)
		rowNo++
	}

	if opts.QR && row.QRCode != "" {
		rowNo++
		if err := writeQR(f, row.QRCode, rowNo); err != nil {
			return nil, err
		}
		rowNo += 8
	}

	if opts.Photos {
		if err := writePhotoSheet(f, tree, headerStyle, opts.RowsPerSheet); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Bytes builds the workbook and serializes it.
func Bytes(row *models.MaintenanceRecord, tree *inspection.ViewTree, opts Options) ([]byte, error) {
	f, err := Build(row, tree, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeVehicleBlock(f *excelize.File, row *models.MaintenanceRecord, rowNo int) int {
	pairs := [][2]string{
		{"依頼者名", row.ClientName},
		{"登録番号", row.RegistrationNumber},
		{"車名・型式", row.CarModel},
		{"車台番号", row.ChassisNumber},
		{"原動機型式", row.EngineModel},
		{"初度登録年", row.FirstRegistration},
		{"点検日", row.InspectionDate},
		{"総走行距離", formatMileage(row.TotalMileage)},
		{"事業場所在地", row.WorkshopAddress},
		{"認証番号", row.CertificationNumber},
		{"整備主任者", row.ChiefMechanicName},
		{"点検実施者", row.InspectorName},
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.SetCellValue(sheetName, cell("A", rowNo), pairs[i][0])
		f.SetCellValue(sheetName, cell("B", rowNo), pairs[i][1])
		f.SetCellValue(sheetName, cell("C", rowNo), pairs[i+1][0])
		f.SetCellValue(sheetName, cell("D", rowNo), pairs[i+1][1])
		rowNo++
	}
	return rowNo
}

func formatMileage(km float64) string {
	if km == 0 {
		return ""
	}
	return fmt.Sprintf("%.0f km", km)
}

var sectionTitles = map[string]string{
	"engine":        "エンジン・ルーム点検",
	"interior":      "室内点検",
	"undercarriage": "足廻り点検",
	"bottom":        "下廻り点検",
	"obd":           "車載式故障診断装置の診断",
	"daily":         "日常点検",
}

func writeSectionBlock(f *excelize.File, tree *inspection.ViewTree, headerStyle, rowNo int) int {
	for _, section := range tree.Sections {
		label := sectionTitles[section.Key]
		if label == "" {
			label = section.Key
		}
		f.MergeCell(sheetName, cell("A", rowNo), cell("D", rowNo))
		f.SetCellValue(sheetName, cell("A", rowNo), label)
		f.SetCellStyle(sheetName, cell("A", rowNo), cell("D", rowNo), headerStyle)
		rowNo++
		for _, category := range section.Categories {
			f.SetCellValue(sheetName, cell("A", rowNo), category.Title)
			rowNo++
			for _, item := range category.Items {
				f.SetCellValue(sheetName, cell("B", rowNo), item.Name)
				f.SetCellValue(sheetName, cell("C", rowNo), item.Code)
				f.SetCellValue(sheetName, cell("D", rowNo), item.ResultText)
				rowNo++
			}
		}
	}
	for _, item := range tree.CustomItems {
		f.SetCellValue(sheetName, cell("B", rowNo), item.Name)
		f.SetCellValue(sheetName, cell("C", rowNo), item.Code)
		f.SetCellValue(sheetName, cell("D", rowNo), item.ResultText)
		rowNo++
	}
	return rowNo
}

func writePartsBlock(f *excelize.File, tree *inspection.ViewTree, headerStyle, rowNo int) int {
	f.MergeCell(sheetName, cell("A", rowNo), cell("D", rowNo))
	f.SetCellValue(sheetName, cell("A", rowNo), "交換部品等")
	f.SetCellStyle(sheetName, cell("A", rowNo), cell("D", rowNo), headerStyle)
	rowNo++
	for _, part := range tree.Parts {
		f.SetCellValue(sheetName, cell("A", rowNo), part.Name)
		f.SetCellValue(sheetName, cell("B", rowNo), part.Quantity)
		rowNo++
	}
	return rowNo
}

func writeMeasurementsBlock(f *excelize.File, tree *inspection.ViewTree, headerStyle, rowNo int) int {
	f.MergeCell(sheetName, cell("A", rowNo), cell("D", rowNo))
	f.SetCellValue(sheetName, cell("A", rowNo), "測定値")
	f.SetCellStyle(sheetName, cell("A", rowNo), cell("D", rowNo), headerStyle)
	rowNo++
	for _, m := range tree.Measurements {
		f.SetCellValue(sheetName, cell("A", rowNo), m.Name)
		value := m.Value
		if m.Unit != "" {
			value += " " + m.Unit
		}
		f.SetCellValue(sheetName, cell("B", rowNo), value)
		rowNo++
	}
	return rowNo
}

// writePhotoSheet appends one or more 写真 sheets embedding every data-URL
// photo of the record, grouped under its item label. rowsPerSheet caps the
// photo rows on each sheet before a continuation sheet starts; zero means
// everything lands on one sheet.
func writePhotoSheet(f *excelize.File, tree *inspection.ViewTree, headerStyle, rowsPerSheet int) error {
	type group struct {
		label  string
		photos []photos.Attachment
	}
	var groups []group
	for _, section := range tree.Sections {
		for _, category := range section.Categories {
			for _, item := range category.Items {
				if len(item.Photos) > 0 {
					groups = append(groups, group{item.Name, item.Photos})
				}
			}
		}
	}
	for _, item := range tree.CustomItems {
		if len(item.Photos) > 0 {
			groups = append(groups, group{item.Name, item.Photos})
		}
	}
	for _, part := range tree.Parts {
		if len(part.Photos) > 0 {
			groups = append(groups, group{part.Name, part.Photos})
		}
	}
	if len(tree.PartsPhotos) > 0 {
		groups = append(groups, group{inspection.PartsOverallItemName, tree.PartsPhotos})
	}
	for _, g := range tree.Uncategorized {
		groups = append(groups, group{g.Label, g.Photos})
	}
	if len(groups) == 0 {
		return nil
	}

	sheetNo := 1
	sheet := "写真"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rowNo := 1
	for _, g := range groups {
		if rowsPerSheet > 0 && rowNo > rowsPerSheet {
			sheetNo++
			sheet = fmt.Sprintf("写真%d", sheetNo)
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
			rowNo = 1
		}
		f.SetCellValue(sheet, cell("A", rowNo), g.label)
		f.SetCellStyle(sheet, cell("A", rowNo), cell("A", rowNo), headerStyle)
		rowNo++
		for _, p := range g.photos {
			img, err := photos.DecodeDataURL(p.URL)
			if err != nil {
				// External URLs and undecodable payloads list as text.
				f.SetCellValue(sheet, cell("B", rowNo), p.URL)
				rowNo++
				continue
			}
			jpg, err := photos.Compress(img)
			if err != nil {
				return err
			}
			f.SetRowHeight(sheet, rowNo, 120)
			err = f.AddPictureFromBytes(sheet, cell("B", rowNo), &excelize.Picture{
				Extension: ".jpg",
				File:      jpg,
			})
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell("C", rowNo), p.BeforeAfter)
			rowNo += 8
		}
	}
	return nil
}

func writeQR(f *excelize.File, payload string, rowNo int) error {
	png, err := qrcode.Encode(payload, qrcode.Medium, 128)
	if err != nil {
		return err
	}
	f.SetCellValue(sheetName, cell("A", rowNo), "お客様ページ")
	return f.AddPictureFromBytes(sheetName, cell("B", rowNo), &excelize.Picture{
		Extension: ".png",
		File:      png,
	})
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
