package propedit

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/util"
)

// Panel renders fields as an HTML form fragment. Input names follow the
// field path ("images.1.src" for list elements) so a form post can be mapped
// back onto Set and SetItemField.
func Panel(fields []Field) []*html.Node {
	form := markup.El("div", markup.Attrs("class", "pk-panel"))
	for _, f := range fields {
		form.AppendChild(fieldNode(f.Name, f))
	}
	return []*html.Node{form}
}

func fieldNode(path string, f Field) *html.Node {
	row := markup.El("div", markup.Attrs(
		"class", "pk-field pk-"+string(f.Control),
		"data-field", path,
	))
	if f.Label != "" {
		row.AppendChild(markup.El("label", markup.Attrs("for", path), markup.Text(f.Label)))
	}
	row.AppendChild(control(path, f))
	if f.Description != "" {
		row.AppendChild(markup.El("small", nil, markup.Text(f.Description)))
	}
	return row
}

func control(path string, f Field) *html.Node {
	str, _ := f.Value.(string)
	switch f.Control {
	case ControlTextarea:
		return markup.El("textarea", markup.Attrs("id", path, "name", path, "rows", "4"), markup.Text(str))

	case ControlColor:
		return markup.El("div", markup.Attrs("class", "pk-color-pair"),
			markup.El("input", markup.Attrs("type", "color", "value", str, "data-sync", path)),
			markup.El("input", markup.Attrs("type", "text", "id", path, "name", path, "value", str, "pattern", "#[0-9a-fA-F]{3,8}")),
		)

	case ControlImage:
		wrap := markup.El("div", markup.Attrs("class", "pk-image"))
		if str != "" {
			wrap.AppendChild(markup.El("img", markup.Attrs("src", str, "alt!", "", "class", "pk-thumb")))
		}
		wrap.AppendChild(markup.El("input", markup.Attrs("type", "url", "id", path, "name", path, "value", str)))
		wrap.AppendChild(markup.El("input", markup.Attrs("type", "file", "accept", "image/*", "data-upload", path)))
		return wrap

	case ControlDatetime:
		return markup.El("input", markup.Attrs("type", "datetime-local", "id", path, "name", path, "value", str, "step", "1"))

	case ControlRange:
		n, _ := util.ToFloat(f.Value)
		lo, hi, cur := markup.Num(f.Min), markup.Num(f.Max), markup.Num(n)
		return markup.El("div", markup.Attrs("class", "pk-range"),
			markup.El("input", markup.Attrs("type", "range", "min!", lo, "max!", hi, "value!", cur, "data-sync", path)),
			markup.El("input", markup.Attrs("type", "number", "id", path, "name", path, "min!", lo, "max!", hi, "value!", cur)),
		)

	case ControlToggle:
		attrs := markup.Attrs("type", "checkbox", "id", path, "name", path, "value", "true")
		if b, _ := f.Value.(bool); b {
			attrs = append(attrs, markup.Attr("checked", ""))
		}
		return markup.El("input", attrs)

	case ControlSelect:
		sel := markup.El("select", markup.Attrs("id", path, "name", path),
			markup.El("option", markup.Attrs("value!", ""), markup.Text("—")))
		for _, o := range f.Options {
			label := o.Label
			if label == "" {
				label = o.Value
			}
			attrs := markup.Attrs("value!", o.Value)
			if o.Value == str {
				attrs = append(attrs, markup.Attr("selected", ""))
			}
			sel.AppendChild(markup.El("option", attrs, markup.Text(label)))
		}
		return sel

	case ControlList:
		list := markup.El("div", markup.Attrs("class", "pk-list", "id", path))
		for _, item := range f.Items {
			prefix := path + "." + strconv.Itoa(item.Index)
			row := markup.El("div", markup.Attrs("class", "pk-item", "data-index", strconv.Itoa(item.Index)))
			for _, sub := range item.Fields {
				subPath := prefix
				if sub.Name != "" {
					subPath = prefix + "." + sub.Name
				}
				row.AppendChild(fieldNode(subPath, sub))
			}
			row.AppendChild(markup.El("button", markup.Attrs(
				"type", "button",
				"data-remove", path,
				"data-index", strconv.Itoa(item.Index),
			), markup.Text("Remove")))
			list.AppendChild(row)
		}
		list.AppendChild(markup.El("button", markup.Attrs("type", "button", "data-add", path), markup.Text("Add")))
		return list
	}

	return markup.El("input", markup.Attrs("type", "text", "id", path, "name", path, "value!", str))
}
