package app

import (
	"io"

	"github.com/vk/funcgrid/funcs/echo"
	"github.com/vk/funcgrid/funcs/fetch"
	"github.com/vk/funcgrid/funcs/uppercase"
	"github.com/vk/funcgrid/internal/catalog"
)

// coreModules is the definitive list of function modules compiled into the
// funcgrid binary, beyond the router which is always present.
func coreModules() ([]catalog.Module, []io.Closer) {
	fetchMod := fetch.New()
	modules := []catalog.Module{
		&echo.Module{},
		&uppercase.Module{},
		fetchMod,
	}
	return modules, []io.Closer{fetchMod}
}
