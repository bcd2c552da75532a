package logger

var FormatRFC3339Millis = formatRFC3339Millis
