package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xelth-com/eckassetgo/internal/services/importer"
)

// Uploads beyond this size are rejected outright
const maxUploadSize = 16 << 20 // 16MB

// uploadSpreadsheet ingests a CSV or Excel file and upserts devices
// row by row, redirecting back with a flash-style result message.
func (r *Router) uploadSpreadsheet(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		redirectWithMessage(w, req, "/upload/", "error", "Upload too large or malformed")
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		redirectWithMessage(w, req, "/upload/", "error", "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		redirectWithMessage(w, req, "/upload/", "error", "Failed to read file")
		return
	}

	result, err := r.imp.ImportFile(data, header.Filename)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			redirectWithMessage(w, req, "/upload/", "error",
				"Unsupported file format. Please upload a CSV or Excel file.")
			return
		}
		redirectWithMessage(w, req, "/upload/", "error",
			fmt.Sprintf("Error processing file: %v", err))
		return
	}

	r.hub.Broadcast("import.completed", result)
	redirectWithMessage(w, req, "/upload/", "msg",
		fmt.Sprintf("Products uploaded successfully! (%d created, %d updated)", result.Created, result.Updated))
}
