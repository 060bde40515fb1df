package tsast

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

const appModule = `import { NgModule } from '@angular/core';
import { BrowserModule } from '@angular/platform-browser';

import { AppComponent } from './app.component';

@NgModule({
  declarations: [],
  imports: [
    BrowserModule
  ],
  providers: [],
  bootstrap: [AppComponent]
})
export class AppModule { }
`

func TestEditList_Apply(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		edits     []Edit
		want      string
		wantError string
	}{
		{
			name:     "descending_offsets",
			original: "abc",
			edits:    []Edit{{Offset: 0, Text: "<"}, {Offset: 3, Text: ">"}, {Offset: 1, Text: "|"}},
			want:     "<a|bc>",
		},
		{
			name:     "same_offset_keeps_recording_order",
			original: "[]",
			edits:    []Edit{{Offset: 1, Text: "a"}, {Offset: 1, Text: "b"}, {Offset: 1, Text: "c"}},
			want:     "[abc]",
		},
		{
			name:     "replace_and_insert",
			original: "[ ] x",
			edits:    []Edit{{Offset: 1, Len: 1, Text: "a, b"}, {Offset: 5, Text: "!"}},
			want:     "[a, b] x!",
		},
		{
			name:      "replace_past_end",
			original:  "abc",
			edits:     []Edit{{Offset: 2, Len: 2, Text: "x"}},
			wantError: "edit offset 2 out of range",
		},
		{
			name:      "offset_out_of_range",
			original:  "abc",
			edits:     []Edit{{Offset: 4, Text: "x"}},
			wantError: "edit offset 4 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := &EditList{}
			for _, e := range tt.edits {
				if e.Len > 0 {
					list.Replace(e.Offset, e.Offset+e.Len, e.Text)
					continue
				}
				list.Insert(e.Offset, e.Text)
			}
			got, err := list.Apply(tt.original)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModuleFile_AddDeclarationsImportsProviders(t *testing.T) {
	ctx := testContext(t)

	m, err := ParseModule(ctx, "src/app/app.module.ts", appModule)
	require.NoError(t, err)

	m.AddDeclaration("HeaderComponent", "./header/header.component")
	m.AddDeclaration("HomeComponent", "./home/home.component")
	m.AddImport("HttpClientModule", "@angular/common/http")
	m.AddProvider("ScriptService", Symbol{Name: "ScriptService", Path: "./shared/services/load-scripts.service"})

	got, err := m.Apply(ctx)
	require.NoError(t, err)

	want := `import { NgModule } from '@angular/core';
import { BrowserModule } from '@angular/platform-browser';

import { AppComponent } from './app.component';
import { HeaderComponent } from './header/header.component';
import { HomeComponent } from './home/home.component';
import { HttpClientModule } from '@angular/common/http';
import { ScriptService } from './shared/services/load-scripts.service';

@NgModule({
  declarations: [HeaderComponent, HomeComponent],
  imports: [
    BrowserModule,
    HttpClientModule
  ],
  providers: [ScriptService],
  bootstrap: [AppComponent]
})
export class AppModule { }
`
	assert.Equal(t, want, got)
}

func TestModuleFile_ProviderExpressionWithSeveralImports(t *testing.T) {
	ctx := testContext(t)

	src := `import { NgModule } from '@angular/core';
import { HttpClient } from '@angular/common/http';

@NgModule({
  declarations: [AppComponent],
  bootstrap: [AppComponent]
})
export class AppModule { }
`
	m, err := ParseModule(ctx, "app.module.ts", src)
	require.NoError(t, err)

	m.AddProvider("{ provide: HTTP_INTERCEPTORS, useClass: LoadingInterceptor, multi: true }",
		Symbol{Name: "HTTP_INTERCEPTORS", Path: "@angular/common/http"},
		Symbol{Name: "LoadingInterceptor", Path: "./shared/interceptors/loading.interceptor"},
	)

	got, err := m.Apply(ctx)
	require.NoError(t, err)

	want := `import { NgModule } from '@angular/core';
import { HttpClient, HTTP_INTERCEPTORS } from '@angular/common/http';
import { LoadingInterceptor } from './shared/interceptors/loading.interceptor';

@NgModule({
  declarations: [AppComponent],
  bootstrap: [AppComponent],
  providers: [{ provide: HTTP_INTERCEPTORS, useClass: LoadingInterceptor, multi: true }]
})
export class AppModule { }
`
	assert.Equal(t, want, got)
}

func TestModuleFile_SkipsExistingImport(t *testing.T) {
	ctx := testContext(t)

	src := `import { NgModule } from '@angular/core';
import { HeaderComponent } from './header/header.component';

@NgModule({ declarations: [AppComponent] })
export class AppModule { }
`
	m, err := ParseModule(ctx, "app.module.ts", src)
	require.NoError(t, err)

	m.AddDeclaration("HeaderComponent", "./header/header.component")
	got, err := m.Apply(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(got, "import { HeaderComponent }"))
	assert.Contains(t, got, "declarations: [AppComponent, HeaderComponent]")
}

func TestModuleFile_SpreadsNonArrayValue(t *testing.T) {
	ctx := testContext(t)

	src := `@NgModule({
  declarations: COMPONENTS,
})
export class AppModule { }
`
	m, err := ParseModule(ctx, "app.module.ts", src)
	require.NoError(t, err)

	m.AddDeclaration("HeaderComponent", "./header/header.component")
	got, err := m.Apply(ctx)
	require.NoError(t, err)

	assert.Contains(t, got, "declarations: [...COMPONENTS, HeaderComponent],")
	assert.True(t, strings.HasPrefix(got, "import { HeaderComponent } from './header/header.component';\n@NgModule"))
}

func TestModuleFile_MissingProperties(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "empty_object",
			src:  "@NgModule({})\nexport class AppModule { }\n",
			want: "@NgModule({\n" +
				"  declarations: [HeaderComponent],\n" +
				"  imports: [HttpClientModule],\n" +
				"  providers: [ScriptService]\n" +
				"})\n",
		},
		{
			name: "blank_multiline_object",
			src:  "@NgModule({\n})\nexport class AppModule { }\n",
			want: "@NgModule({\n" +
				"  declarations: [HeaderComponent],\n" +
				"  imports: [HttpClientModule],\n" +
				"  providers: [ScriptService]\n" +
				"})\n",
		},
		{
			name: "after_existing_property",
			src:  "@NgModule({\n  bootstrap: [AppComponent]\n})\nexport class AppModule { }\n",
			want: "@NgModule({\n" +
				"  bootstrap: [AppComponent],\n" +
				"  declarations: [HeaderComponent],\n" +
				"  imports: [HttpClientModule],\n" +
				"  providers: [ScriptService]\n" +
				"})\n",
		},
		{
			name: "inline_object",
			src:  "@NgModule({ bootstrap: [AppComponent] })\nexport class AppModule { }\n",
			want: "@NgModule({ bootstrap: [AppComponent], declarations: [HeaderComponent], imports: [HttpClientModule], providers: [ScriptService] })\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)

			m, err := ParseModule(ctx, "app.module.ts", tt.src)
			require.NoError(t, err)

			m.AddDeclaration("HeaderComponent", "./header/header.component")
			m.AddImport("HttpClientModule", "@angular/common/http")
			m.AddProvider("ScriptService", Symbol{Name: "ScriptService", Path: "./script.service"})

			got, err := m.Apply(ctx)
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
			assert.NoError(t, Check(ctx, "app.module.ts", got))
		})
	}
}

func TestModuleFile_ShorthandProperty(t *testing.T) {
	ctx := testContext(t)

	src := `const declarations = [AppComponent];

@NgModule({ declarations, bootstrap: [AppComponent] })
export class AppModule { }
`
	m, err := ParseModule(ctx, "app.module.ts", src)
	require.NoError(t, err)

	m.AddDeclaration("HeaderComponent", "./header/header.component")
	got, err := m.Apply(ctx)
	require.NoError(t, err)

	assert.Contains(t, got, "@NgModule({ declarations: [...declarations, HeaderComponent], bootstrap: [AppComponent] })")
	assert.Equal(t, 1, strings.Count(got, "declarations:"))
	assert.NoError(t, Check(ctx, "app.module.ts", got))
}

func TestModuleFile_EmptyMultilineArray(t *testing.T) {
	ctx := testContext(t)

	src := `@NgModule({
  declarations: [
  ],
  providers: [ ]
})
export class AppModule { }
`
	m, err := ParseModule(ctx, "app.module.ts", src)
	require.NoError(t, err)

	m.AddDeclaration("HeaderComponent", "./header/header.component")
	m.AddDeclaration("HomeComponent", "./home/home.component")
	m.AddProvider("ScriptService")
	got, err := m.Apply(ctx)
	require.NoError(t, err)

	assert.Contains(t, got, `@NgModule({
  declarations: [
    HeaderComponent, HomeComponent
  ],
  providers: [ScriptService]
})`)
}

func TestCheck(t *testing.T) {
	ctx := testContext(t)

	assert.NoError(t, Check(ctx, "ok.ts", "@NgModule({ declarations: [A] })\nexport class M { }\n"))

	err := Check(ctx, "bad.ts", "@NgModule({ declarations: [A]\n imports: [B] })\nexport class M { }\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestModuleFile_RepeatedRunDuplicates(t *testing.T) {
	ctx := testContext(t)

	content := appModule
	for i := 0; i < 2; i++ {
		m, err := ParseModule(ctx, "app.module.ts", content)
		require.NoError(t, err)
		m.AddDeclaration("HeaderComponent", "./header/header.component")
		content, err = m.Apply(ctx)
		require.NoError(t, err)
	}

	assert.Contains(t, content, "declarations: [HeaderComponent, HeaderComponent]")
	assert.Equal(t, 1, strings.Count(content, "import { HeaderComponent }"))
}

func TestParseModule_NoDecorator(t *testing.T) {
	ctx := testContext(t)

	_, err := ParseModule(ctx, "app.component.ts", "export class AppComponent {}\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoNgModule))
}

func TestRoutingFile_AddRoute(t *testing.T) {
	const header = `import { NgModule } from '@angular/core';
import { Routes, RouterModule } from '@angular/router';
`
	const footer = `

@NgModule({
  imports: [RouterModule.forRoot(routes)],
  exports: [RouterModule]
})
export class AppRoutingModule { }
`
	const importLine = "\nimport { HomeComponent } from './home/home.component';"

	tests := []struct {
		name   string
		routes string
		want   string
	}{
		{
			name:   "empty_array",
			routes: "\nconst routes: Routes = [];",
			want: "\nconst routes: Routes = [\n" +
				"  { path: '', redirectTo: 'home', pathMatch: 'full' },\n" +
				"  { path: 'home', component: HomeComponent }\n" +
				"];",
		},
		{
			name:   "blank_array",
			routes: "\nconst routes: Routes = [ ];",
			want: "\nconst routes: Routes = [\n" +
				"  { path: '', redirectTo: 'home', pathMatch: 'full' },\n" +
				"  { path: 'home', component: HomeComponent }\n" +
				"];",
		},
		{
			name:   "blank_multiline_array",
			routes: "\nconst routes: Routes = [\n];",
			want: "\nconst routes: Routes = [\n" +
				"  { path: '', redirectTo: 'home', pathMatch: 'full' },\n" +
				"  { path: 'home', component: HomeComponent }\n" +
				"];",
		},
		{
			name:   "existing_entries_multiline",
			routes: "\nconst routes: Routes = [\n    { path: 'about', component: AboutComponent }\n];",
			want: "\nconst routes: Routes = [\n" +
				"    { path: '', redirectTo: 'home', pathMatch: 'full' },\n" +
				"    { path: 'home', component: HomeComponent },\n" +
				"    { path: 'about', component: AboutComponent }\n" +
				"];",
		},
		{
			name:   "existing_entries_inline",
			routes: "\nconst routes: Routes = [{ path: 'about', component: AboutComponent }];",
			want: "\nconst routes: Routes = [\n" +
				"  { path: '', redirectTo: 'home', pathMatch: 'full' },\n" +
				"  { path: 'home', component: HomeComponent }, { path: 'about', component: AboutComponent }];",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)

			r, err := ParseRouting(ctx, "app-routing.module.ts", header+tt.routes+footer)
			require.NoError(t, err)

			r.AddRoute("{ path: '', redirectTo: 'home', pathMatch: 'full' }")
			r.AddRoute("{ path: 'home', component: HomeComponent }", Symbol{Name: "HomeComponent", Path: "./home/home.component"})

			got, err := r.Apply(ctx)
			require.NoError(t, err)
			assert.Equal(t, header[:len(header)-1]+importLine+"\n"+tt.want+footer, got)
		})
	}
}

func TestParseRouting_NoRoutes(t *testing.T) {
	ctx := testContext(t)

	_, err := ParseRouting(ctx, "app-routing.module.ts", "const paths = [];\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRoutes))
}
