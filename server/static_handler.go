package server

import (
	"io"
	"net/http"
	"strings"

	"BassTab/logger"
	"BassTab/storage"
)

// StaticSnapshotHandler 从 MinIO 转发 /static/ 下的快照对象
func (h *APIHandler) StaticSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	objectName := strings.TrimPrefix(r.URL.Path, "/static/")
	if objectName == "" || strings.Contains(objectName, "..") {
		respondWithError(w, http.StatusBadRequest, "invalid object path")
		return
	}

	if storage.GetMinioClient() == nil {
		respondWithError(w, http.StatusServiceUnavailable, "snapshot storage unavailable")
		return
	}

	object, err := storage.GetObject(r.Context(), objectName)
	if err != nil {
		logger.Warn("failed to open snapshot object",
			logger.String("object", objectName), logger.ErrorField(err))
		respondWithError(w, http.StatusNotFound, "object not found")
		return
	}
	defer object.Close()

	if strings.HasSuffix(objectName, ".json") {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Cache-Control", "public, max-age=300")

	if _, err := io.Copy(w, object); err != nil {
		logger.Warn("failed to stream snapshot object",
			logger.String("object", objectName), logger.ErrorField(err))
	}
}
