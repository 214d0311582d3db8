package consts

const (
	MIMETextPlain   = "text/plain"
	MIMEOctetStream = "application/octet-stream"
	MIMEFormData    = "application/x-www-form-urlencoded"
	MIMEJSON        = "application/json"
	MIMEXML         = "application/xml"
	MIMETextXML     = "text/xml"
	MIMEHTML        = "text/html"
	MIMECSS         = "text/css"
	MIMECSV         = "text/csv"
	MIMEJavaScript  = "text/javascript"
	MIMEPNG         = "image/png"
	MIMEJPEG        = "image/jpeg"
	MIMESVG         = "image/svg"
)
