package movie

// WindowSize is the number of page links shown around the current page.
const WindowSize = 5

type PageLink struct {
	Number  int
	Current bool
}

type PageWindow struct {
	Pages   []PageLink
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
}

// PageRange builds the page links for a pager centred on current. The
// window never extends past 1 or total and is shifted left when the end
// clamps, so it stays full whenever total allows.
func PageRange(current, total int) PageWindow {
	if total <= 0 {
		return PageWindow{}
	}

	start := current - WindowSize/2
	if start < 1 {
		start = 1
	}
	end := start + WindowSize - 1
	if end > total {
		end = total
		start = end - WindowSize + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]PageLink, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, PageLink{Number: n, Current: n == current})
	}

	return PageWindow{
		Pages:   pages,
		Prev:    current - 1,
		Next:    current + 1,
		HasPrev: current > 1,
		HasNext: current < total,
	}
}
