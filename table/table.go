/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package table provides structural helpers for defining tables.
// Given a dedicated tableRoot util.DataBuilder representing the root node of
// the table, and which must not be used for any other purpose, a new Table
// instance may be created via
//
//	table := New(tableRoot, renderSettings, ...columns)
//
// Then, a new row may be added via
//
//	row := table.Row(...<Cell() or FormattedCell()>)
//
// Rows may carry payloads, via payload.New(row, payloadType).
//
// The structure of a table in a response, with each level representing a
// DataSeries or nested Datum is:
//
//	table
//	  properties
//	    * <render settings>
//	  children:
//	    * column definitions
//	    * repeated rows
//
//	column definitions
//	  children
//	    * repeated column definition
//
//	column definition
//	  properties
//	    * category definition
//
//	row
//	  properties
//	    * <decorators>
//	  children
//	    * repeated cells and formatted cells
//	    * repeated payloads
//
//	cell
//	  properties
//	    * column tag
//	    * cellKey: Value (cell contents)
//
//	formatted cell
//	  properties
//	    * column tag
//	    * formattedCellKey: StringValue (label format string)
//	    * <properties referenced by the format>
package table

import (
	"github.com/ilhamster/healthviz/category"
	"github.com/ilhamster/healthviz/util"
)

const (
	cellKey          = "table_cell"
	formattedCellKey = "table_formatted_cell"

	rowHeightPxKey = "table_row_height_px"
	fontSizePxKey  = "table_font_size_px"
)

// RenderSettings is a collection of rendering settings for tables.
type RenderSettings struct {
	// The height of a row in pixels.
	RowHeightPx int64
	// The table text font size in pixels.
	FontSizePx int64
}

func (rs *RenderSettings) define() util.PropertyUpdate {
	if rs == nil {
		return util.EmptyUpdate
	}
	return util.Chain(
		util.IntegerProperty(rowHeightPxKey, rs.RowHeightPx),
		util.IntegerProperty(fontSizePxKey, rs.FontSizePx),
	)
}

// ColumnUpdate represents a table column, identified, named and described by
// its category.
type ColumnUpdate struct {
	cat *category.Category
}

// Column returns a new Column with the specified category.
func Column(cat *category.Category) *ColumnUpdate {
	return &ColumnUpdate{cat: cat}
}

// CellUpdate is a PropertyUpdate specifically annotating a cell.
type CellUpdate util.PropertyUpdate

// Cell returns a CellUpdate annotating a datum as a cell of the provided
// column holding the specified value.
func Cell(column *ColumnUpdate, value util.Value) CellUpdate {
	return CellUpdate(util.Chain(
		column.cat.Tag(),
		value(cellKey),
	))
}

// FormattedCell returns a CellUpdate annotating a datum as a cell of the
// provided column holding a label format string (see package label).  Any
// specified PropertyUpdates, such as those referenced in the format, are
// also applied.
func FormattedCell(column *ColumnUpdate, value string, cellUpdates ...util.PropertyUpdate) CellUpdate {
	cellUpdates = append(cellUpdates,
		column.cat.Tag(),
		util.StringProperty(formattedCellKey, value),
	)
	return CellUpdate(util.Chain(cellUpdates...))
}

// Node represents a table embedded in a response.
type Node struct {
	db util.DataBuilder
}

// New defines a new table in the provided DataBuilder, with the specified
// columns.
func New(db util.DataBuilder, renderSettings *RenderSettings, columns ...*ColumnUpdate) *Node {
	colGroup := db.Child()
	for _, column := range columns {
		colGroup.Child().With(column.cat.Define())
	}
	db.With(renderSettings.define())
	return &Node{
		db: db,
	}
}

// RowNode represents a row embedded in a response.
type RowNode struct {
	db util.DataBuilder
}

// Row adds a row holding the specified cells to the receiving table.
func (n *Node) Row(cells ...CellUpdate) *RowNode {
	db := n.db.Child()
	for _, cell := range cells {
		db.Child().With(util.PropertyUpdate(cell))
	}
	return &RowNode{
		db,
	}
}

// With annotates the receiving row with the provided properties.
func (rn *RowNode) With(properties ...util.PropertyUpdate) *RowNode {
	rn.db.With(properties...)
	return rn
}

// Payload allows RowNode to implement payload.Payloader.
func (rn *RowNode) Payload() util.DataBuilder {
	return rn.db.Child()
}
