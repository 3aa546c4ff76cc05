/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package internal

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileData a basic structure encapsulating a file path and size
type FileData struct {
	FullPath string
	Name     string // path relative to the listed directory
	Size     int64
}

// NewFileData creates an instance of FileData from a file path, its path
// relative to the listed directory and its size
func NewFileData(fullPath, name string, size int64) *FileData {
	this := &FileData{}
	this.FullPath = fullPath
	this.Name = filepath.ToSlash(name)
	this.Size = size
	return this
}

// FileCompare a structure used to sort files by name or size
type FileCompare struct {
	data       []FileData
	sortBySize bool
}

// NewFileCompare creates a sorter for the given files
func NewFileCompare(data []FileData, sortBySize bool) *FileCompare {
	this := &FileCompare{}
	this.data = data
	this.sortBySize = sortBySize
	return this
}

// Len returns the size of the internal file data buffer
func (this FileCompare) Len() int {
	return len(this.data)
}

// Swap swaps two file data in the internal buffer
func (this FileCompare) Swap(i, j int) {
	this.data[i], this.data[j] = this.data[j], this.data[i]
}

// Less returns true if the file at index i comes before the file at index j.
// The order is the lexical order of names, or increasing sizes then names.
func (this FileCompare) Less(i, j int) bool {
	if this.sortBySize == true && this.data[i].Size != this.data[j].Size {
		return this.data[i].Size < this.data[j].Size
	}

	return strings.Compare(this.data[i].Name, this.data[j].Name) < 0
}

func isDotFile(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// CreateFileList lists the regular files under the target directory,
// sorted by name (or by size when sortBySize is set).
func CreateFileList(target string, isRecursive, ignoreDotFiles, sortBySize bool) ([]FileData, error) {
	fileList := make([]FileData, 0)

	if isRecursive {
		err := filepath.WalkDir(target, func(path string, de fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if path == target {
				return nil
			}

			if ignoreDotFiles == true && isDotFile(de.Name()) {
				if de.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			if de.Type().IsRegular() == false {
				return nil
			}

			fi, err := de.Info()

			if err != nil {
				return err
			}

			rel, err := filepath.Rel(target, path)

			if err != nil {
				return err
			}

			fileList = append(fileList, *NewFileData(path, rel, fi.Size()))
			return nil
		})

		if err != nil {
			return nil, err
		}
	} else {
		files, err := os.ReadDir(target)

		if err != nil {
			return nil, err
		}

		for _, de := range files {
			if de.Type().IsRegular() == false {
				continue
			}

			if ignoreDotFiles == true && isDotFile(de.Name()) {
				continue
			}

			fi, err := de.Info()

			if err != nil {
				return nil, err
			}

			fileList = append(fileList, *NewFileData(filepath.Join(target, de.Name()), de.Name(), fi.Size()))
		}
	}

	sort.Sort(NewFileCompare(fileList, sortBySize))
	return fileList, nil
}
