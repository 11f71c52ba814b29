package parser

import (
	"testing"

	"github.com/conneroisu/esvm/internal/ast"
	"github.com/conneroisu/esvm/pkg/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}

	return prog
}

func TestParseVarDeclarationWithInitializer(t *testing.T) {
	prog := mustParse(t, "let x = 1 + 2;")
	if len(prog.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VarDeclaration)
	if !ok {
		t.Fatalf("statement is %T, want *ast.VarDeclaration", prog.Body[0])
	}
	if decl.Kind != "let" || len(decl.Declarators) != 1 || decl.Declarators[0].Name != "x" {
		t.Fatalf("decl = %+v", decl)
	}
	bin, ok := decl.Declarators[0].Init.(*ast.BinaryExpr)
	if !ok || bin.Operator != "+" {
		t.Fatalf("init = %+v", decl.Declarators[0].Init)
	}
}

func TestParseFunctionDeclarationWithRestParam(t *testing.T) {
	prog := mustParse(t, "function sum(a, b, ...rest) { return a + b; }")
	fn, ok := prog.Body[0].(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FunctionLiteral", prog.Body[0])
	}
	if fn.Name != "sum" || !fn.IsDeclaration {
		t.Fatalf("fn = %+v", fn)
	}
	if len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" || fn.RestParam != "rest" {
		t.Fatalf("params = %v rest = %q", fn.Params, fn.RestParam)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("body = %+v", fn.Body)
	}
}

func TestParseArrowFunctionExpressionBody(t *testing.T) {
	prog := mustParse(t, "const square = x => x * x;")
	decl := prog.Body[0].(*ast.VarDeclaration)
	fn, ok := decl.Declarators[0].Init.(*ast.FunctionLiteral)
	if !ok || !fn.IsArrow || !fn.IsExprBody {
		t.Fatalf("init = %+v", decl.Declarators[0].Init)
	}
	if len(fn.Params) != 1 || fn.Params[0] != "x" {
		t.Fatalf("params = %v", fn.Params)
	}
	if _, ok := fn.ExprBody.(*ast.BinaryExpr); !ok {
		t.Fatalf("expr body = %+v", fn.ExprBody)
	}
}

func TestParseArrowFunctionParenParamsBlockBody(t *testing.T) {
	prog := mustParse(t, "const add = (a, b) => { return a + b; };")
	decl := prog.Body[0].(*ast.VarDeclaration)
	fn, ok := decl.Declarators[0].Init.(*ast.FunctionLiteral)
	if !ok || !fn.IsArrow || fn.IsExprBody {
		t.Fatalf("init = %+v", decl.Declarators[0].Init)
	}
	if len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" {
		t.Fatalf("params = %v", fn.Params)
	}
}

func TestParseParenthesizedExpressionIsNotArrow(t *testing.T) {
	prog := mustParse(t, "(1 + 2) * 3;")
	stmt := prog.Body[0].(*ast.ExpressionStmt)
	bin, ok := stmt.Expression.(*ast.BinaryExpr)
	if !ok || bin.Operator != "*" {
		t.Fatalf("expr = %+v", stmt.Expression)
	}
	if _, ok := bin.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("left = %+v, want grouped BinaryExpr", bin.Left)
	}
}

func TestParseIfElseStatement(t *testing.T) {
	prog := mustParse(t, "if (x) { y(); } else { z(); }")
	stmt, ok := prog.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.IfStmt", prog.Body[0])
	}
	if stmt.Alternate == nil {
		t.Fatalf("expected else branch")
	}
}

func TestParseClassicForLoop(t *testing.T) {
	prog := mustParse(t, "for (let i = 0; i < 10; i = i + 1) { sum(i); }")
	stmt, ok := prog.Body[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ForStmt", prog.Body[0])
	}
	if stmt.Init == nil || stmt.Test == nil || stmt.Update == nil {
		t.Fatalf("for stmt = %+v", stmt)
	}
}

func TestParseForOfLoop(t *testing.T) {
	prog := mustParse(t, "for (const item of items) { use(item); }")
	stmt, ok := prog.Body[0].(*ast.ForInStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ForInStmt", prog.Body[0])
	}
	if !stmt.IsOf || stmt.DeclKind != "const" || stmt.Target != "item" {
		t.Fatalf("for-of stmt = %+v", stmt)
	}
}

func TestParseForInLoop(t *testing.T) {
	prog := mustParse(t, "for (key in obj) { use(key); }")
	stmt, ok := prog.Body[0].(*ast.ForInStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ForInStmt", prog.Body[0])
	}
	if stmt.IsOf || stmt.DeclKind != "" || stmt.Target != "key" {
		t.Fatalf("for-in stmt = %+v", stmt)
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := mustParse(t, "try { risky(); } catch (e) { handle(e); } finally { cleanup(); }")
	stmt, ok := prog.Body[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("statement is %T, want *ast.TryStmt", prog.Body[0])
	}
	if stmt.Handler == nil || stmt.Handler.Param != "e" || stmt.Finalizer == nil {
		t.Fatalf("try stmt = %+v", stmt)
	}
}

func TestParseMemberAndCallChain(t *testing.T) {
	prog := mustParse(t, "a.b.c(1, 2).d[0];")
	stmt := prog.Body[0].(*ast.ExpressionStmt)
	outer, ok := stmt.Expression.(*ast.MemberExpr)
	if !ok || !outer.Computed {
		t.Fatalf("outer = %+v", stmt.Expression)
	}
	dMember, ok := outer.Object.(*ast.MemberExpr)
	if !ok || dMember.Computed {
		t.Fatalf("d member = %+v", outer.Object)
	}
	call, ok := dMember.Object.(*ast.CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("call = %+v", dMember.Object)
	}
}

func TestParseOptionalChaining(t *testing.T) {
	prog := mustParse(t, "a?.b?.(1);")
	stmt := prog.Body[0].(*ast.ExpressionStmt)
	call, ok := stmt.Expression.(*ast.CallExpr)
	if !ok || !call.Optional {
		t.Fatalf("expr = %+v", stmt.Expression)
	}
	member, ok := call.Callee.(*ast.MemberExpr)
	if !ok || !member.Optional {
		t.Fatalf("callee = %+v", call.Callee)
	}
}

func TestParseNewExpressionWithMemberCallee(t *testing.T) {
	prog := mustParse(t, "new ns.Widget(1, 2);")
	stmt := prog.Body[0].(*ast.ExpressionStmt)
	n, ok := stmt.Expression.(*ast.NewExpr)
	if !ok {
		t.Fatalf("expr = %+v", stmt.Expression)
	}
	if _, ok := n.Callee.(*ast.MemberExpr); !ok {
		t.Fatalf("callee = %+v", n.Callee)
	}
	if len(n.Args) != 2 {
		t.Fatalf("args = %v", n.Args)
	}
}

func TestParseArrayAndObjectLiterals(t *testing.T) {
	prog := mustParse(t, "const pair = [1, ...rest, 3]; const obj = { a: 1, b, [c]: 2 };")
	arrDecl := prog.Body[0].(*ast.VarDeclaration)
	arr, ok := arrDecl.Declarators[0].Init.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 3 || !arr.Spreads[1] {
		t.Fatalf("arr = %+v", arr)
	}

	objDecl := prog.Body[1].(*ast.VarDeclaration)
	obj, ok := objDecl.Declarators[0].Init.(*ast.ObjectLiteral)
	if !ok || len(obj.Properties) != 3 {
		t.Fatalf("obj = %+v", obj)
	}
	if !obj.Properties[2].Computed {
		t.Fatalf("expected computed key for property 2: %+v", obj.Properties[2])
	}
}

func TestParseConditionalAndAssignmentAssociativity(t *testing.T) {
	prog := mustParse(t, "a = b ? c : d ? e : f;")
	stmt := prog.Body[0].(*ast.ExpressionStmt)
	assign, ok := stmt.Expression.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expr = %+v", stmt.Expression)
	}
	outer, ok := assign.Value.(*ast.ConditionalExpr)
	if !ok {
		t.Fatalf("value = %+v", assign.Value)
	}
	if _, ok := outer.Alternate.(*ast.ConditionalExpr); !ok {
		t.Fatalf("alternate = %+v, want nested ConditionalExpr", outer.Alternate)
	}
}

func TestParseCommaSequenceInForUpdate(t *testing.T) {
	prog := mustParse(t, "for (i = 0, j = 10; i < j; i = i + 1, j = j - 1) { }")
	stmt := prog.Body[0].(*ast.ForStmt)
	if _, ok := stmt.Update.(*ast.SequenceExpr); !ok {
		t.Fatalf("update = %+v, want *ast.SequenceExpr", stmt.Update)
	}
}

func TestParseReportsErrorOnUnexpectedToken(t *testing.T) {
	p := New(lexer.New("let = ;"))
	if _, err := p.Parse(); err == nil {
		t.Fatalf("expected a parse error")
	}
}
