// Package catalog loads the ComfyUI-Manager extension node map and custom
// node directory, and merges them into one canonical plugin lookup.
package catalog
