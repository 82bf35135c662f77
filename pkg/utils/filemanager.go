// =============================================================================
// Store Order Converter - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the converter:
//   - Output directory creation
//   - Output file naming
//   - Batch identifiers derived from the input file name
//   - Optional archival of the input file after a successful run
//
// ARCHIVAL STRATEGY:
//   - The input file is moved to the archive directory only after every
//     output has been written
//   - A failed run leaves the input where it was
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string

	// ArchiveDir is the directory for archived input files.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: input_archive/2024/01/15/siparis.xlsx
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether ArchiveInputFile moves anything.
	ArchiveOnSuccess bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, archiveDir string, archiveOnSuccess bool) *FileManager {
	return &FileManager{
		OutputDir:        outputDir,
		ArchiveDir:       archiveDir,
		ArchiveOnSuccess: archiveOnSuccess,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory, and the archive directory
// when archival is enabled.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.OutputDir}
	if fm.ArchiveOnSuccess {
		dirs = append(dirs, fm.ArchiveDir)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// OutputPath joins name onto the output directory.
func (fm *FileManager) OutputPath(name string) string {
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//   - now:      The time used for date-based subdirectories.
//
// RETURNS:
//   - The path to the archived file, or filePath when archival is disabled.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string, now time.Time) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(filePath, now)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// Rename fails across devices; fall back to copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(filePath string, now time.Time) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		subDir := filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

// =============================================================================
// NAMING
// =============================================================================

// BatchID returns the identifier stamped on every order line: the input file
// name without its last extension ("siparis.mayis.xlsx" -> "siparis.mayis").
func BatchID(inputPath string) string {
	name := filepath.Base(inputPath)
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// OriginalStem returns the input file name up to its first dot, as used in
// output file names ("siparis.mayis.xlsx" -> "siparis").
func OriginalStem(inputPath string) string {
	name := filepath.Base(inputPath)
	if i := strings.Index(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// GenerateOutputFileName builds an output file name from format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//       {original}  - Input file name up to the first dot
//       {timestamp} - now as YYYYMMDD_HHMM
//       {date}      - now as YYYYMMDD
//       {time}      - now as HHMM
//       {uuid}      - A random UUID
//   - inputPath: The input file.
//   - ext:       The extension to enforce, e.g. ".xlsx".
//   - now:       The run time.
//
// EXAMPLE:
//   format: "{original}_donusturulmus_{timestamp}.xlsx"
//   input:  "siparis.xlsx"
//   output: "siparis_donusturulmus_20240115_1430.xlsx"
func GenerateOutputFileName(format, inputPath, ext string, now time.Time) string {
	replacements := map[string]string{
		"{original}":  OriginalStem(inputPath),
		"{timestamp}": now.Format("20060102_1504"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("1504"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileSize returns the size of a file in bytes.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
