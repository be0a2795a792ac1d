package student

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-cms/internal/cli"
	"github.com/aanand-mishra/students-cms/internal/console"
	"github.com/aanand-mishra/students-cms/internal/grade"
	"github.com/aanand-mishra/students-cms/internal/records"
	"github.com/aanand-mishra/students-cms/internal/types"
)

const dbName = "StudentRecords"

var seed = []types.Student{
	types.New(2301234, "Anna Lee", "Computing Science", 72.5),
	types.New(2305678, "Ben Tan", "Applied AI", 91),
	types.New(2309999, "Cara Lim", "Computing Science", 48),
}

func openStore(t *testing.T, rs ...types.Student) *records.Store {
	t.Helper()
	s := records.New()
	require.NoError(t, s.Open(rs))
	return s
}

// run feeds input lines to h and returns everything it printed.
func run(t *testing.T, h cli.HandlerFunc, lines ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	input := strings.Join(lines, "\n")
	if len(lines) > 0 {
		input += "\n"
	}
	err := h(console.New(strings.NewReader(input), &out, ""))
	return out.String(), err
}

func TestShowAll(t *testing.T) {
	t.Run("records", func(t *testing.T) {
		store := openStore(t, seed...)
		out, err := run(t, ShowAll(store, dbName), "")
		require.NoError(t, err)

		assert.Contains(t, out, "2301234  Anna Lee")
		assert.Contains(t, out, "2309999  Cara Lim")
		assert.Contains(t, out, `CMS <SHOW ALL>: Found 3 records in "StudentRecords" database!`)
		assert.Contains(t, out, "Press [Enter] to continue..")
		assert.Less(t, strings.Index(out, "Anna Lee"), strings.Index(out, "Ben Tan"), "store order")
	})

	t.Run("empty", func(t *testing.T) {
		out, err := run(t, ShowAll(openStore(t), dbName))
		require.NoError(t, err)
		assert.Contains(t, out, "CMS: No records found! 'INSERT' to add records!")
		assert.NotContains(t, out, "Press [Enter]")
	})
}

func TestInsert(t *testing.T) {
	store := openStore(t, seed...)

	out, err := run(t, Insert(store),
		"2305678",           // taken
		"2312345",           //
		"  Dana   Ng ",      // collapsed to "Dana Ng"
		"Data Science & AI", //
		"84.96",             // rounds to 85.0, A+
		"y",
	)
	require.NoError(t, err)

	assert.Contains(t, out, `[Error] Record with student ID="2305678" already exists! Please try again!`)
	assert.Contains(t, out, "     Grade: A+ (Auto-Calculated)")
	assert.Contains(t, out, "CMS <INSERT>: Student record inserted successfully!")

	got, ok := store.Find(2312345)
	require.True(t, ok)
	want := types.Student{ID: 2312345, Name: "Dana Ng", Programme: "Data Science & AI", Marks: 85, Grade: grade.APlus}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("inserted record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, store.Len())
	assert.True(t, store.IsDirty())
}

func TestInsertCancelAtEveryStep(t *testing.T) {
	steps := [][]string{
		{"q"},
		{"2312345", "Q"},
		{"2312345", "Dana Ng", "q"},
		{"2312345", "Dana Ng", "Data Science", "q"},
		{"2312345", "Dana Ng", "Data Science", "60", "n"},
	}
	for _, lines := range steps {
		t.Run(strings.Join(lines, ","), func(t *testing.T) {
			store := openStore(t, seed...)

			out, err := run(t, Insert(store), lines...)
			require.NoError(t, err)

			assert.Contains(t, out, "CMS <INSERT>: Insert operation cancelled!")
			assert.Equal(t, len(seed), store.Len())
			assert.False(t, store.IsDirty())
		})
	}
}

func TestInsertEOF(t *testing.T) {
	store := openStore(t, seed...)
	_, err := run(t, Insert(store), "2312345")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, len(seed), store.Len())
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    []string
		notWant []string
	}{
		{
			name:    "by id substring",
			lines:   []string{"1", "0123", ""},
			want:    []string{"2301234  Anna Lee"},
			notWant: []string{"Ben Tan", "Cara Lim"},
		},
		{
			name:    "by name case insensitive",
			lines:   []string{"2", "LIM", ""},
			want:    []string{"Cara Lim"},
			notWant: []string{"Anna Lee"},
		},
		{
			name:  "by programme",
			lines: []string{"3", "computing", ""},
			want:  []string{"Anna Lee", "Cara Lim"},
		},
		{
			name:    "by grade family",
			lines:   []string{"4", "b", ""},
			want:    []string{"Anna Lee"},
			notWant: []string{"Ben Tan"},
		},
		{
			name:  "no match asks again",
			lines: []string{"2", "Zed", "Ben", ""},
			want: []string{
				`CMS <QUERY>: No records found with name containing "Zed". Please try again.`,
				"Ben Tan",
			},
		},
		{
			name:  "no grade match",
			lines: []string{"4", "C", "D+", ""},
			want:  []string{`No records found with grade "C". Please try again.`, "Cara Lim"},
		},
		{
			name:  "invalid term",
			lines: []string{"1", "12a", "", "q", "q"},
			want: []string{
				"[Error] Invalid input! Only numeric values (max 7 digits) are allowed for Student ID search. Please try again!",
				"[Error] Query cannot be empty! Please try again!",
				"CMS <QUERY>: Query by Student ID cancelled! Returning to query menu.",
				"CMS <QUERY>: Returning to the main menu...",
			},
		},
		{
			name:  "invalid option",
			lines: []string{"5", "Q"},
			want:  []string{"[Error] Invalid input! Please enter option [1-4] only!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openStore(t, seed...)

			out, err := run(t, Query(store, dbName), tt.lines...)
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
			assert.False(t, store.IsDirty(), "queries never change the store")
		})
	}
}

func TestQueryEmptyStore(t *testing.T) {
	out, err := run(t, Query(openStore(t), dbName))
	require.NoError(t, err)
	assert.Contains(t, out, `CMS <QUERY>: No records to query! The database "StudentRecords" is empty!`)
}

func TestUpdateSingleFields(t *testing.T) {
	store := openStore(t, seed...)

	out, err := run(t, Update(store, dbName),
		"2301234",
		"1", "Anna Marie Lee", "y",
		"2", "Data Science", "n",
		"3", "81", "y",
		"q",
	)
	require.NoError(t, err)

	assert.Contains(t, out, `Confirm name update from "Anna Lee" to "Anna Marie Lee"? (Y/N)`)
	assert.Contains(t, out, "CMS <UPDATE>: Name successfully updated!")
	assert.Contains(t, out, "CMS <UPDATE>: Update by programme cancelled!")
	assert.Contains(t, out, `Confirm updating marks from "72.5" to "81.0"? (Y/N)`)
	assert.Contains(t, out, "CMS <UPDATE>: Marks successfully updated!")
	assert.Equal(t, 4, strings.Count(out, "STUDENT FOUND"), "sub-menu shown after each single-field update")

	got, _ := store.Find(2301234)
	want := types.New(2301234, "Anna Marie Lee", "Computing Science", 81)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("updated record mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, store.IsDirty())
}

func TestUpdateAll(t *testing.T) {
	t.Run("confirmed ends the operation", func(t *testing.T) {
		store := openStore(t, seed...)

		out, err := run(t, Update(store, dbName),
			"2305678", "4", "Ben Tan Wei", "Mechanical Engineering", "39.9", "y",
		)
		require.NoError(t, err)

		assert.Contains(t, out, "     Name: Ben Tan -> Ben Tan Wei")
		assert.Contains(t, out, "    Marks: 91.0 -> 39.9")
		assert.Contains(t, out, "CMS <UPDATE>: Update successful!")

		got, _ := store.Find(2305678)
		assert.Equal(t, grade.F, got.Grade)
		assert.Equal(t, "Mechanical Engineering", got.Programme)
	})

	t.Run("cancel returns to the sub-menu", func(t *testing.T) {
		store := openStore(t, seed...)

		out, err := run(t, Update(store, dbName),
			"2305678",
			"4", "Ben", "q",
			"4", "Ben", "Law", "50", "n",
			"Q",
		)
		require.NoError(t, err)

		assert.Contains(t, out, "CMS <UPDATE>: Update operation cancelled!")
		assert.Contains(t, out, "CMS <UPDATE>: Update cancelled!")
		assert.Equal(t, 3, strings.Count(out, "STUDENT FOUND"))
		assert.False(t, store.IsDirty())
		if diff := cmp.Diff(seed, store.All()); diff != "" {
			t.Errorf("store changed (-want +got):\n%s", diff)
		}
	})
}

func TestUpdateAborts(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"not found", []string{"2300000"}, `CMS <UPDATE>: Record with student ID="2300000" not found!`},
		{"cancel at id", []string{"q"}, "CMS <UPDATE>: Update operation cancelled!"},
		{"invalid option then cancel", []string{"2301234", "7", "q"}, "[Error] Invalid option. Please enter [1-4] or 'Q' to cancel."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openStore(t, seed...)
			out, err := run(t, Update(store, dbName), tt.lines...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.False(t, store.IsDirty())
		})
	}
}

func TestDelete(t *testing.T) {
	store := openStore(t, seed...)

	out, err := run(t, Delete(store, dbName), "2305678", "x", "Y")
	require.NoError(t, err)

	assert.Contains(t, out, "     Grade: A+ (Auto-Calculated)")
	assert.Contains(t, out, "[Error] Invalid input! Please enter 'Y' or 'N'! Please try again!")
	assert.Contains(t, out, `CMS <DELETE>: Record with student ID="2305678" successfully deleted!`)

	_, found := store.Find(2305678)
	assert.False(t, found)
	want := []types.Student{seed[0], seed[2]}
	if diff := cmp.Diff(want, store.All()); diff != "" {
		t.Errorf("order not preserved (-want +got):\n%s", diff)
	}
	assert.True(t, store.IsDirty())
}

func TestDeleteLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"declined", []string{"2305678", "n"}, "CMS <DELETE>: Delete operation cancelled!"},
		{"cancel at id", []string{"Q"}, "CMS <DELETE>: Delete operation cancelled!"},
		{"not found", []string{"2300000"}, `CMS <DELETE>: Record with student ID="2300000" not found!`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openStore(t, seed...)
			out, err := run(t, Delete(store, dbName), tt.lines...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Equal(t, len(seed), store.Len())
			assert.False(t, store.IsDirty())
		})
	}
}

func TestDeleteEmptyStore(t *testing.T) {
	out, err := run(t, Delete(openStore(t), dbName))
	require.NoError(t, err)
	assert.Contains(t, out, `CMS <DELETE>: No records to delete! The database "StudentRecords" is empty!`)
}
