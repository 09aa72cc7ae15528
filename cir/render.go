package cir

import (
	"fmt"
	"strings"
)

// Render renders an expression to C source text.
func Render(e Expr) string {
	var b strings.Builder
	renderExpr(&b, e)
	return b.String()
}

func renderExpr(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case nil:
		return
	case Var:
		b.WriteString(v.Name)
	case Lit:
		b.WriteString(v.Text)
	case Raw:
		b.WriteString(v.Text)
	case Index:
		renderExpr(b, v.Base)
		b.WriteByte('[')
		renderExpr(b, v.Idx)
		b.WriteByte(']')
	case Field:
		renderExpr(b, v.Base)
		if v.Arrow {
			b.WriteString("->")
		} else {
			b.WriteByte('.')
		}
		b.WriteString(v.Name)
	case Cast:
		fmt.Fprintf(b, "(%s)", v.Type)
		renderExpr(b, v.Inner)
	case Addr:
		b.WriteByte('&')
		renderExpr(b, v.Inner)
	case Deref:
		b.WriteByte('*')
		renderExpr(b, v.Inner)
	case Call:
		renderExpr(b, v.Func)
		b.WriteByte('(')
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			renderExpr(b, a)
		}
		b.WriteByte(')')
	case BinOp:
		b.WriteByte('(')
		renderExpr(b, v.Left)
		fmt.Fprintf(b, " %s ", v.Op)
		renderExpr(b, v.Right)
		b.WriteByte(')')
	case UnaryOp:
		b.WriteString(v.Op)
		renderExpr(b, v.Operand)
	default:
		panic(fmt.Sprintf("cir: unknown expr node %T", e))
	}
}

// RenderStmt renders a statement to indented C source text. indent is the
// number of leading tab stops for the top-level statement.
func RenderStmt(s Stmt, indent int) string {
	var b strings.Builder
	renderStmt(&b, s, indent)
	return b.String()
}

func pad(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteByte('\t')
	}
}

func renderStmt(b *strings.Builder, s Stmt, indent int) {
	switch v := s.(type) {
	case nil:
		return
	case ExprStmt:
		pad(b, indent)
		renderExpr(b, v.Expr)
		b.WriteString(";\n")
	case Decl:
		pad(b, indent)
		fmt.Fprintf(b, "%s %s", v.Type, v.Name)
		if v.Init != nil {
			b.WriteString(" = ")
			renderExpr(b, v.Init)
		}
		b.WriteString(";\n")
	case Assign:
		pad(b, indent)
		op := v.Op
		if op == "" {
			op = "="
		}
		renderExpr(b, v.Dst)
		fmt.Fprintf(b, " %s ", op)
		renderExpr(b, v.Src)
		b.WriteString(";\n")
	case Block:
		pad(b, indent)
		b.WriteString("{\n")
		for _, st := range v.Stmts {
			renderStmt(b, st, indent+1)
		}
		pad(b, indent)
		b.WriteString("}\n")
	case If:
		pad(b, indent)
		b.WriteString("if (")
		renderExpr(b, v.Cond)
		b.WriteString(") ")
		renderBranch(b, v.Then, indent)
		if v.Else != nil {
			pad(b, indent)
			b.WriteString("else ")
			renderBranch(b, v.Else, indent)
		}
	case For:
		pad(b, indent)
		b.WriteString("for (")
		renderInline(b, v.Init)
		b.WriteString("; ")
		renderExpr(b, v.Cond)
		b.WriteString("; ")
		renderInline(b, v.Post)
		b.WriteString(") ")
		renderBranch(b, v.Body, indent)
	case While:
		pad(b, indent)
		b.WriteString("while (")
		renderExpr(b, v.Cond)
		b.WriteString(") ")
		renderBranch(b, v.Body, indent)
	case Continue:
		pad(b, indent)
		b.WriteString("continue;\n")
	case Break:
		pad(b, indent)
		b.WriteString("break;\n")
	case Return:
		pad(b, indent)
		b.WriteString("return")
		if v.Value != nil {
			b.WriteByte(' ')
			renderExpr(b, v.Value)
		}
		b.WriteString(";\n")
	case Comment:
		pad(b, indent)
		fmt.Fprintf(b, "// %s\n", v.Text)
	case RawStmt:
		pad(b, indent)
		b.WriteString(v.Text)
		b.WriteByte('\n')
	default:
		panic(fmt.Sprintf("cir: unknown stmt node %T", s))
	}
}

// renderBranch renders a statement that follows an if/for/while header: a
// Block renders inline (continuing the current line with "{"), anything
// else renders on its own indented line.
func renderBranch(b *strings.Builder, s Stmt, indent int) {
	if blk, ok := s.(Block); ok {
		b.WriteString("{\n")
		for _, st := range blk.Stmts {
			renderStmt(b, st, indent+1)
		}
		pad(b, indent)
		b.WriteString("}\n")
		return
	}
	b.WriteByte('\n')
	renderStmt(b, s, indent+1)
}

// renderInline renders a statement's expression form without trailing
// newline, for use inside a for(...) header.
func renderInline(b *strings.Builder, s Stmt) {
	switch v := s.(type) {
	case nil:
		return
	case ExprStmt:
		renderExpr(b, v.Expr)
	case Decl:
		fmt.Fprintf(b, "%s %s", v.Type, v.Name)
		if v.Init != nil {
			b.WriteString(" = ")
			renderExpr(b, v.Init)
		}
	case Assign:
		op := v.Op
		if op == "" {
			op = "="
		}
		renderExpr(b, v.Dst)
		fmt.Fprintf(b, " %s ", op)
		renderExpr(b, v.Src)
	default:
		panic(fmt.Sprintf("cir: statement %T cannot render inline", s))
	}
}

// RenderFunc renders a complete function definition.
func RenderFunc(f FuncDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s(", f.ReturnType, f.Name)
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", p.Type, p.Name)
	}
	b.WriteString(") ")
	if f.Body == nil {
		b.WriteString("{\n}\n")
		return b.String()
	}
	renderStmt(&b, *f.Body, 0)
	return b.String()
}
