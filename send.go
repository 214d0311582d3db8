package ron

import (
	"encoding/json"

	"github.com/rohanthewiz/ron/consts"
)

// HTML sends the body with the content type set to `text/html`.
func HTML(ctx Context, body string) error {
	ctx.Response().SetHeader(consts.HeaderContentType, consts.MIMEHTML)
	_, err := ctx.Response().WriteString(body)
	return err
}

// JSON encodes the object in JSON format and sends it with the content type
// set to `application/json`.
func JSON(ctx Context, object any) error {
	ctx.Response().SetHeader(consts.HeaderContentType, consts.MIMEJSON)
	return json.NewEncoder(ctx.Response()).Encode(object)
}

// Text sends the body with the content type set to `text/plain`.
func Text(ctx Context, body string) error {
	ctx.Response().SetHeader(consts.HeaderContentType, consts.MIMETextPlain)
	_, err := ctx.Response().WriteString(body)
	return err
}

// XML sends the body with the content type set to `text/xml`.
func XML(ctx Context, body string) error {
	ctx.Response().SetHeader(consts.HeaderContentType, consts.MIMETextXML)
	_, err := ctx.Response().WriteString(body)
	return err
}
