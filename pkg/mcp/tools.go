package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// tools pairs every tool definition with its handler.
func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		// catalog
		{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		{Tool: listComponentsTool(), Handler: s.handleListComponents},
		{Tool: getComponentDetailsTool(), Handler: s.handleGetComponentDetails},
		{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
		{Tool: listTemplatesTool(), Handler: s.handleListTemplates},

		// pages
		{Tool: listPagesTool(), Handler: s.handleListPages},
		{Tool: newPageTool(), Handler: s.handleNewPage},
		{Tool: openPageTool(), Handler: s.handleOpenPage},
		{Tool: savePageTool(), Handler: s.handleSavePage},

		// editing
		{Tool: getDocumentTool(), Handler: s.handleGetDocument},
		{Tool: addComponentTool(), Handler: s.handleAddComponent},
		{Tool: removeComponentTool(), Handler: s.handleRemoveComponent},
		{Tool: moveComponentTool(), Handler: s.handleMoveComponent},
		{Tool: updatePropsTool(), Handler: s.handleUpdateProps},
		{Tool: selectComponentTool(), Handler: s.handleSelectComponent},
		{Tool: getPropertyFieldsTool(), Handler: s.handleGetPropertyFields},
		{Tool: setFieldTool(), Handler: s.handleSetField},
		{Tool: addListItemTool(), Handler: s.handleAddListItem},
		{Tool: removeListItemTool(), Handler: s.handleRemoveListItem},
		{Tool: uploadImageTool(), Handler: s.handleUploadImage},
		{Tool: undoTool(), Handler: s.handleUndo},
		{Tool: redoTool(), Handler: s.handleRedo},

		// output
		{Tool: validatePageTool(), Handler: s.handleValidatePage},
		{Tool: analyzePageTool(), Handler: s.handleAnalyzePage},
		{Tool: renderPageTool(), Handler: s.handleRenderPage},
	}
}

// --- catalog ---

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List palette categories with their component counts."),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List component types, optionally filtered by category or a keyword matched against type and name."),
		mcp.WithString("category", mcp.Description("Category name: media, content, interactive, navigation or layout")),
		mcp.WithString("keyword", mcp.Description("Case-insensitive keyword")),
	)
}

func getComponentDetailsTool() mcp.Tool {
	return mcp.NewTool("get_component_details",
		mcp.WithDescription("Full prop schemas and default props for one or more component types."),
		mcp.WithArray("types",
			mcp.Description("Component type keys, e.g. [\"carousel\", \"form\"]"),
			mcp.Required(),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Search component types by type, name or prop name."),
		mcp.WithString("query", mcp.Description("Search text"), mcp.Required()),
	)
}

func listTemplatesTool() mcp.Tool {
	return mcp.NewTool("list_templates",
		mcp.WithDescription("List the starting templates new_page accepts."),
	)
}

// --- pages ---

func listPagesTool() mcp.Tool {
	return mcp.NewTool("list_pages",
		mcp.WithDescription("List saved pages."),
	)
}

func newPageTool() mcp.Tool {
	return mcp.NewTool("new_page",
		mcp.WithDescription("Start editing a new, unsaved page, optionally seeded from a template."),
		mcp.WithString("slug", mcp.Description("Lowercase kebab-case slug; generated when omitted")),
		mcp.WithString("title", mcp.Description("Page title")),
		mcp.WithString("template", mcp.Description("Template id from list_templates (default blank)")),
		mcp.WithBoolean("discard", mcp.Description("Drop unsaved changes of the open page")),
	)
}

func openPageTool() mcp.Tool {
	return mcp.NewTool("open_page",
		mcp.WithDescription("Open a saved page for editing."),
		mcp.WithString("slug", mcp.Description("Page slug"), mcp.Required()),
		mcp.WithBoolean("discard", mcp.Description("Drop unsaved changes of the open page")),
	)
}

func savePageTool() mcp.Tool {
	return mcp.NewTool("save_page",
		mcp.WithDescription("Save the open page, optionally updating its metadata and publishing its HTML."),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("seo_title", mcp.Description("Title used in search results and shares")),
		mcp.WithString("seo_description", mcp.Description("Meta description")),
		mcp.WithString("seo_og_image", mcp.Description("Share image URL")),
		mcp.WithBoolean("build", mcp.Description("Also write the published HTML when the page has no errors")),
	)
}

// --- editing ---

func getDocumentTool() mcp.Tool {
	return mcp.NewTool("get_document",
		mcp.WithDescription("Return the open page's document, selection and history state."),
	)
}

func addComponentTool() mcp.Tool {
	return mcp.NewTool("add_component",
		mcp.WithDescription("Insert a component with its default props and select it."),
		mcp.WithString("type", mcp.Description("Component type key"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Insert position; omitted or past the end appends")),
		mcp.WithObject("props", mcp.Description("Props merged over the defaults")),
	)
}

func removeComponentTool() mcp.Tool {
	return mcp.NewTool("remove_component",
		mcp.WithDescription("Remove a component by id."),
		mcp.WithString("id", mcp.Description("Component id"), mcp.Required()),
	)
}

func moveComponentTool() mcp.Tool {
	return mcp.NewTool("move_component",
		mcp.WithDescription("Move the component at one index to another."),
		mcp.WithNumber("from", mcp.Description("Current index"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target index"), mcp.Required()),
	)
}

func updatePropsTool() mcp.Tool {
	return mcp.NewTool("update_props",
		mcp.WithDescription("Shallow-merge props into a component. Returns any schema problems with the result."),
		mcp.WithString("id", mcp.Description("Component id"), mcp.Required()),
		mcp.WithObject("props", mcp.Description("Props to set; lists are replaced whole"), mcp.Required()),
	)
}

func selectComponentTool() mcp.Tool {
	return mcp.NewTool("select_component",
		mcp.WithDescription("Select a component. An empty id clears the selection."),
		mcp.WithString("id", mcp.Description("Component id")),
	)
}

func getPropertyFieldsTool() mcp.Tool {
	return mcp.NewTool("get_property_fields",
		mcp.WithDescription("Editor controls for a component's props with their current values."),
		mcp.WithString("id", mcp.Description("Component id; defaults to the selection")),
	)
}

func setFieldTool() mcp.Tool {
	return mcp.NewTool("set_field",
		mcp.WithDescription("Set one property editor field from text input. Numbers are clamped to the field's range and toggles accept true/false."),
		mcp.WithString("id", mcp.Description("Component id; defaults to the selection")),
		mcp.WithString("path", mcp.Description("Field path from get_property_fields: \"height\", \"tags.1\" or \"images.0.alt\""), mcp.Required()),
		mcp.WithString("value", mcp.Description("New value as text")),
	)
}

func addListItemTool() mcp.Tool {
	return mcp.NewTool("add_list_item",
		mcp.WithDescription("Append the field's item template to a list field."),
		mcp.WithString("id", mcp.Description("Component id; defaults to the selection")),
		mcp.WithString("field", mcp.Description("List field name, e.g. images"), mcp.Required()),
	)
}

func removeListItemTool() mcp.Tool {
	return mcp.NewTool("remove_list_item",
		mcp.WithDescription("Remove one element of a list field."),
		mcp.WithString("id", mcp.Description("Component id; defaults to the selection")),
		mcp.WithString("field", mcp.Description("List field name"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Element index"), mcp.Required()),
	)
}

func uploadImageTool() mcp.Tool {
	return mcp.NewTool("upload_image",
		mcp.WithDescription("Store an image (JPEG, PNG, WebP, GIF or SVG, max 5MB) and set its URL on an image field."),
		mcp.WithString("id", mcp.Description("Component id; defaults to the selection")),
		mcp.WithString("path", mcp.Description("Image field path, e.g. \"src\" or \"images.0.src\""), mcp.Required()),
		mcp.WithString("filename", mcp.Description("Original file name")),
		mcp.WithString("data", mcp.Description("Base64-encoded file content"), mcp.Required()),
	)
}

func undoTool() mcp.Tool {
	return mcp.NewTool("undo", mcp.WithDescription("Undo the last edit."))
}

func redoTool() mcp.Tool {
	return mcp.NewTool("redo", mcp.WithDescription("Redo the last undone edit."))
}

// --- output ---

func validatePageTool() mcp.Tool {
	return mcp.NewTool("validate_page",
		mcp.WithDescription("Check the open page against the component schemas."),
		mcp.WithBoolean("auto_fix", mcp.Description("Include a repaired copy of the document")),
	)
}

func analyzePageTool() mcp.Tool {
	return mcp.NewTool("analyze_page",
		mcp.WithDescription("Compact structural summary of the open page for planning edits."),
	)
}

func renderPageTool() mcp.Tool {
	return mcp.NewTool("render_page",
		mcp.WithDescription("Render the open page as a complete HTML document."),
	)
}
