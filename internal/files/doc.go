// Package files discovers monthly TLC trip files on disk.
package files
