// Package fuzztests houses Go fuzz harnesses for the formatting pipeline
// (source -> lexer -> parser -> formatter). They guard against panics, hangs
// and lost bytes on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через лексер, парсер и
// форматтер и проверять свойства, которые не зависят от входа:
// токены склеиваются обратно в исходник, дерево без потерь, повторное
// форматирование ничего не меняет.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/format, internal/testkit, internal/diag.

package fuzztests
