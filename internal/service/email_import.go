package service

import (
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Import lists come from teachers pasting out of mail clients and
// spreadsheets, so tokenization is permissive: any mix of newlines, commas
// and semicolons separates entries.
var (
	emailSeparators = regexp.MustCompile(`[\r\n,;]+`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ParseEmailList extracts the valid addresses from free-form text:
// trimmed, lowercased, deduplicated case-insensitively, input order kept.
// rejected counts the non-empty tokens that failed validation.
func ParseEmailList(raw string) (emails []string, rejected int) {
	seen := make(map[string]bool)
	for _, token := range emailSeparators.Split(raw, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		email := strings.ToLower(token)
		if !emailPattern.MatchString(email) {
			rejected++
			continue
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails, rejected
}

// ParseEmailWorkbook extracts addresses from every cell of every sheet of an
// .xlsx/.xls workbook, with the same validation as ParseEmailList.
func ParseEmailWorkbook(r io.Reader) (emails []string, rejected int, err error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, err
	}
	defer wb.Close()

	var cells []string
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, 0, err
		}
		for _, row := range rows {
			cells = append(cells, row...)
		}
	}

	emails, rejected = ParseEmailList(strings.Join(cells, "\n"))
	return emails, rejected, nil
}
