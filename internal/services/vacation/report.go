package services

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

// utf8BOM нужен, чтобы табличные редакторы распознали кодировку.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RenderCSV строит отчёт: заголовок destination,likes и по строке на отпуск.
// Направление всегда в кавычках, внутренние кавычки удваиваются.
// Строки разделяются \n, перевода строки в конце нет.
func RenderCSV(rows []models.LikesReportRow) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	buf.WriteString("destination,likes")
	for _, row := range rows {
		buf.WriteByte('\n')
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(row.Destination, `"`, `""`))
		buf.WriteString(`",`)
		buf.WriteString(strconv.Itoa(row.Likes))
	}
	return buf.Bytes()
}
